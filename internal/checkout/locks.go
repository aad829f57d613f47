package checkout

import "sync"

// UserLocks sérialise les mutations de panier d'un même utilisateur
// dans ce processus : ajout, retrait et checkout du même panier ne
// s'exécutent jamais en parallèle. Les utilisateurs distincts ne se
// bloquent pas entre eux. La garde de version du CartStore couvre le
// cas multi-processus.
//
// Chaque entrée est comptée par référence et retirée de la table dès
// que plus personne ne l'attend : la table ne grossit pas avec le
// nombre d'utilisateurs vus depuis le démarrage.
type UserLocks struct {
	mu    sync.Mutex
	locks map[string]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func NewUserLocks() *UserLocks {
	return &UserLocks{locks: make(map[string]*userLock)}
}

// Lock verrouille le mutex de l'utilisateur et retourne la fonction de
// déverrouillage.
func (l *UserLocks) Lock(userID string) func() {
	l.mu.Lock()
	entry, ok := l.locks[userID]
	if !ok {
		entry = &userLock{}
		l.locks[userID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, userID)
		}
		l.mu.Unlock()
	}
}
