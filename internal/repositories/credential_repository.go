package repositories

import (
	"context"
	"strings"

	"github.com/anonto42/lumina/backend/internal/models"
	"gorm.io/gorm"
)

// CredentialRepository stores password hashes for local sign-in.
type CredentialRepository interface {
	CreateCredential(ctx context.Context, cred *models.Credential) error
	GetCredentialByEmail(ctx context.Context, email string) (*models.Credential, error)
}

type PostgresCredentialRepository struct {
	db *gorm.DB
}

func NewPostgresCredentialRepository(db *gorm.DB) *PostgresCredentialRepository {
	return &PostgresCredentialRepository{db: db}
}

func (r *PostgresCredentialRepository) CreateCredential(ctx context.Context, cred *models.Credential) error {
	cred.Email = strings.ToLower(cred.Email)
	return translate("create credential", "credential", r.db.WithContext(ctx).Create(cred).Error)
}

func (r *PostgresCredentialRepository) GetCredentialByEmail(ctx context.Context, email string) (*models.Credential, error) {
	var cred models.Credential
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&cred).Error
	if err != nil {
		return nil, translate("get credential", "credential", err)
	}
	return &cred, nil
}
