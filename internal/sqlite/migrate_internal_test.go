package sqlite

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/myrjola/gaslight/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func TestDatabase_migrate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name              string
		schemaDefinitions []string
		testQueries       []string
		wantErr           bool
	}{
		{
			name:              "empty schema",
			schemaDefinitions: []string{""},
			testQueries:       []string{"SELECT * FROM sqlite_schema"},
			wantErr:           false,
		},
		{
			name:              "create slot table",
			schemaDefinitions: []string{"CREATE TABLE slot (id TEXT PRIMARY KEY, payload TEXT)"},
			testQueries: []string{
				"INSERT INTO slot (payload) VALUES ('{}')",
				"SELECT * FROM slot",
			},
			wantErr: false,
		},
		{
			name: "drop table",
			schemaDefinitions: []string{
				"CREATE TABLE slot (id TEXT PRIMARY KEY, payload TEXT)",
				"", // drop table
			},
			testQueries: []string{"INSERT INTO slot (payload) VALUES ('{}')"},
			wantErr:     true,
		},
		{
			name: "add column",
			schemaDefinitions: []string{
				"CREATE TABLE slot (id TEXT PRIMARY KEY)",
				"CREATE TABLE slot (id TEXT PRIMARY KEY, payload TEXT)",
			},
			testQueries: []string{"INSERT INTO slot (payload) VALUES ('{}')"},
			wantErr:     false,
		},
		{
			name: "remove column",
			schemaDefinitions: []string{
				"CREATE TABLE slot (id TEXT PRIMARY KEY)",
				"CREATE TABLE slot (id TEXT PRIMARY KEY, payload TEXT)",
				"CREATE TABLE slot (id TEXT PRIMARY KEY)",
			},
			testQueries: []string{"INSERT INTO slot (payload) VALUES ('{}')"},
			wantErr:     true,
		},
		{
			name: "create index",
			schemaDefinitions: []string{
				"CREATE TABLE slot (id TEXT PRIMARY KEY, payload TEXT); CREATE INDEX slot_payload ON slot (payload)",
			},
			testQueries: []string{"DROP INDEX slot_payload"},
			wantErr:     false,
		},
		{
			name: "drop index",
			schemaDefinitions: []string{
				"CREATE TABLE slot (id TEXT PRIMARY KEY, payload TEXT); CREATE INDEX slot_payload ON slot (payload)",
				"CREATE TABLE slot (id TEXT PRIMARY KEY, payload TEXT)",
			},
			testQueries: []string{"DROP INDEX slot_payload"},
			wantErr:     true,
		},
		{
			name: "update index",
			schemaDefinitions: []string{
				"CREATE TABLE slot (id TEXT PRIMARY KEY, payload TEXT); CREATE INDEX slot_payload ON slot (payload)",
				"CREATE TABLE slot (id TEXT PRIMARY KEY, payload TEXT); CREATE INDEX slot_payload ON slot (id, payload)",
			},
			testQueries: []string{"DROP INDEX slot_payload"},
			wantErr:     false,
		},
		{
			name: "create trigger",
			schemaDefinitions: []string{
				`CREATE TABLE slot (id TEXT PRIMARY KEY, payload TEXT);
                 CREATE TRIGGER slot_guard AFTER INSERT ON slot BEGIN SELECT RAISE ( FAIL, 'slot locked' ); END;`,
			},
			testQueries: []string{"INSERT INTO slot (payload) VALUES ('{}')"},
			wantErr:     true,
		},
		{
			name: "delete trigger",
			schemaDefinitions: []string{
				`CREATE TABLE slot (id TEXT PRIMARY KEY, payload TEXT);
                 CREATE TRIGGER slot_guard AFTER INSERT ON slot BEGIN SELECT RAISE ( FAIL, 'slot locked' ); END;`,
				"CREATE TABLE slot (id TEXT PRIMARY KEY, payload TEXT)",
			},
			testQueries: []string{"INSERT INTO slot (payload) VALUES ('{}')"},
			wantErr:     false,
		},
		{
			name: "update trigger",
			schemaDefinitions: []string{
				`CREATE TABLE slot (id TEXT PRIMARY KEY, payload TEXT);
                 CREATE TRIGGER slot_guard AFTER INSERT ON slot BEGIN SELECT RAISE ( FAIL, 'slot locked' ); END;`,
				`CREATE TABLE slot (id TEXT PRIMARY KEY, payload TEXT);
                 CREATE TRIGGER slot_guard AFTER INSERT ON slot BEGIN SELECT 1; END;`,
			},
			testQueries: []string{"INSERT INTO slot (payload) VALUES ('{}')"},
			wantErr:     false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			logger := testhelpers.NewLogger(io.Discard)
			db, err := connect(":memory:", logger)
			require.NoError(t, err)
			t.Cleanup(func() { require.NoError(t, db.Close()) })
			for _, schemaDefinition := range tt.schemaDefinitions {
				logger.LogAttrs(ctx, slog.LevelInfo, "migrating", slog.String("schema", schemaDefinition))
				err = db.migrateTo(ctx, schemaDefinition)
				require.NoError(t, err)
			}
			for _, query := range tt.testQueries {
				logger.LogAttrs(ctx, slog.LevelInfo, "executing", slog.String("query", query))
				_, err = db.ReadWrite.ExecContext(ctx, query)
				if tt.wantErr {
					require.Error(t, err)
				} else {
					require.NoError(t, err)
				}
			}
		})
	}
}

func TestNewDatabase(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	db, err := NewDatabase(ctx, ":memory:", testhelpers.NewLogger(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, db.Close()) })

	var tables []string
	require.NoError(t, db.ReadOnly.SelectContext(ctx, &tables,
		"SELECT name FROM sqlite_schema WHERE type = 'table' ORDER BY name"))
	require.Equal(t, []string{"saves", "sessions"}, tables)

	// Synchronizing an unchanged schema is a no-op.
	require.NoError(t, db.migrateTo(ctx, schemaDefinition))

	_, err = db.ReadOnly.ExecContext(ctx, "DELETE FROM saves")
	require.Error(t, err, "read pool is query only")
}
