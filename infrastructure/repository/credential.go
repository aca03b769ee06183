package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vpicolo/fabrica-manager-api/infrastructure/database/postgres"
	"github.com/vpicolo/fabrica-manager-api/internal/domain"
)

const credentialsTable = "integration_credentials"

type CredentialRepository interface {
	Get(integration domain.Integration) (*domain.Credentials, error)
	SaveTokens(creds *domain.Credentials) error
	Disconnect(integration domain.Integration) error
}

type credentialRepository struct {
	conn *postgres.Connection
}

func NewCredentialRepository(conn *postgres.Connection) CredentialRepository {
	return &credentialRepository{
		conn: conn,
	}
}

func (r *credentialRepository) Get(integration domain.Integration) (*domain.Credentials, error) {
	query, args, err := squirrel.
		Select("integration", "client_id", "client_secret", "access_token", "refresh_token", "expires_at", "user_id", "updated_at").
		From(credentialsTable).
		Where(squirrel.Eq{"integration": string(integration)}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	creds := &domain.Credentials{}
	var accessToken, refreshToken, userID sql.NullString
	var expiresAt sql.NullTime

	err = r.conn.QueryRow(query, args...).Scan(
		&creds.Integration,
		&creds.ClientID,
		&creds.ClientSecret,
		&accessToken,
		&refreshToken,
		&expiresAt,
		&userID,
		&creds.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao buscar credenciais: %w", err)
	}

	creds.AccessToken = accessToken.String
	creds.RefreshToken = refreshToken.String
	creds.UserID = userID.String
	if expiresAt.Valid {
		creds.ExpiresAt = expiresAt.Time
	}

	return creds, nil
}

func (r *credentialRepository) SaveTokens(creds *domain.Credentials) error {
	query := squirrel.StatementBuilder.
		Insert(credentialsTable).
		Columns("integration", "client_id", "client_secret", "access_token", "refresh_token", "expires_at", "user_id").
		Values(
			string(creds.Integration),
			creds.ClientID,
			creds.ClientSecret,
			creds.AccessToken,
			creds.RefreshToken,
			creds.ExpiresAt,
			creds.UserID,
		).
		Suffix(`
			ON CONFLICT (integration) DO UPDATE SET
				client_id = EXCLUDED.client_id,
				client_secret = EXCLUDED.client_secret,
				access_token = EXCLUDED.access_token,
				refresh_token = EXCLUDED.refresh_token,
				expires_at = EXCLUDED.expires_at,
				user_id = EXCLUDED.user_id,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(sqlQuery, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao salvar credenciais: %w", err)
	}

	return nil
}

// Disconnect limpa os tokens mantendo client id/secret, de forma que a
// integração possa ser reconectada sem reconfiguração.
func (r *credentialRepository) Disconnect(integration domain.Integration) error {
	query, args, err := squirrel.
		Update(credentialsTable).
		Set("access_token", "").
		Set("refresh_token", "").
		Set("expires_at", time.Time{}).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"integration": string(integration)}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("erro ao desconectar integração: %w", err)
	}

	return nil
}
