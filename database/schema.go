package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the users and documents tables plus the full-text
// index used for retrieval. Statements are idempotent so startup can run
// this unconditionally.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			name TEXT,
			session_token TEXT UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS documents (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			filename TEXT NOT NULL,
			file_type TEXT NOT NULL,
			file_size BIGINT NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'pending',
			doc_type TEXT,
			summary TEXT,
			sections JSONB NOT NULL DEFAULT '[]'::jsonb,
			key_points JSONB NOT NULL DEFAULT '[]'::jsonb,
			questions_answered JSONB NOT NULL DEFAULT '[]'::jsonb,
			conclusions JSONB NOT NULL DEFAULT '[]'::jsonb,
			entities JSONB NOT NULL DEFAULT '{}'::jsonb,
			relationships JSONB NOT NULL DEFAULT '[]'::jsonb,
			timeline JSONB NOT NULL DEFAULT '[]'::jsonb,
			raw_text TEXT,
			error_message TEXT,
			searchable_content TSVECTOR,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		"CREATE INDEX IF NOT EXISTS idx_documents_user_status ON documents(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_documents_created ON documents(user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_documents_search ON documents USING GIN (searchable_content)",
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("execute schema statement: %w", err)
		}
	}

	return nil
}
