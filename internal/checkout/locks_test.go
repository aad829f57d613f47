package checkout

import (
	"fmt"
	"sync"
	"testing"
)

// Deux goroutines sur le même utilisateur ne tiennent jamais le verrou
// en même temps ; le compteur non protégé détecte toute entrelacement
// sous -race.
func TestUserLocksSerializeSameUser(t *testing.T) {
	locks := NewUserLocks()

	const rounds = 1000
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				unlock := locks.Lock("alice")
				counter++
				unlock()
			}
		}()
	}
	wg.Wait()

	if counter != 4*rounds {
		t.Errorf("compteur = %d, attendu %d", counter, 4*rounds)
	}
}

// La table de verrous ne doit pas garder une entrée par utilisateur vu
// depuis le démarrage : une entrée que plus personne n'attend est retirée.
func TestUserLocksEvictIdleEntries(t *testing.T) {
	locks := NewUserLocks()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				userID := fmt.Sprintf("user-%d-%d", n, j)
				unlock := locks.Lock(userID)
				unlock()
			}
		}(i)
	}
	wg.Wait()

	locks.mu.Lock()
	remaining := len(locks.locks)
	locks.mu.Unlock()
	if remaining != 0 {
		t.Errorf("entrées restantes = %d, attendu 0", remaining)
	}
}

func TestUserLocksIndependentUsers(t *testing.T) {
	locks := NewUserLocks()

	// alice tient son verrou : bob ne doit pas être bloqué
	unlockAlice := locks.Lock("alice")
	defer unlockAlice()

	done := make(chan struct{})
	go func() {
		unlock := locks.Lock("bob")
		unlock()
		close(done)
	}()

	<-done
}
