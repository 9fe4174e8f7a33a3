package handler

import (
	"context"

	"github.com/dskvich/ai-assistant/pkg/domain"
)

type Assistant interface {
	Describe(ctx context.Context, imageName string, image []byte) (string, error)
	Generate(ctx context.Context, prompt string) (string, error)
	Save(ctx context.Context, r domain.SavedResponse) (int64, error)
	History(ctx context.Context) ([]domain.SavedResponse, error)
	SavedResponse(ctx context.Context, id int64) (*domain.SavedResponse, error)
}
