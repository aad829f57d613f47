package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/minio/minio-go/v7"
)

// Storage — stockage objet des images produit. Client nil = upload
// désactivé (MinIO non configuré).
type Storage struct {
	client   *minio.Client
	bucket   string
	endpoint string
	useSSL   bool
}

func NewStorage(client *minio.Client, bucket, endpoint string, useSSL bool) *Storage {
	return &Storage{client: client, bucket: bucket, endpoint: endpoint, useSSL: useSSL}
}

func (s *Storage) Enabled() bool {
	return s != nil && s.client != nil
}

// UploadFile pousse le fichier dans le bucket et retourne son URL publique
func (s *Storage) UploadFile(ctx context.Context, objectName string, file *multipart.FileHeader) (string, error) {
	if !s.Enabled() {
		return "", errors.New("MinIO non initialisé")
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	_, err = s.client.PutObject(ctx, s.bucket, objectName, f, file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}

	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, objectName), nil
}
