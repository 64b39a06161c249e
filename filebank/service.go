package filebank

import "context"

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Register(ctx context.Context, ownerUserID string, kind Kind, name, bucketPath string, sizeBytes int64) (File, error) {
	return s.repo.Register(ctx, ownerUserID, kind, name, bucketPath, sizeBytes)
}

func (s *Service) List(ctx context.Context, ownerUserID string, kind *Kind) ([]File, error) {
	return s.repo.List(ctx, ownerUserID, kind)
}

func (s *Service) Get(ctx context.Context, ownerUserID, fileID string) (File, error) {
	return s.repo.Get(ctx, ownerUserID, fileID)
}
