package core

// postgres.go is the alternative dataset source: the same records stored in
// a Postgres table. The table is written once by `aidrugctl seed` and read
// once at server startup; the running dashboard never touches the database.

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is the subset of a pgx connection the dataset source needs.
// Satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// companyTableDDL creates the dataset table. %s is the quoted table name.
const companyTableDDL = `CREATE TABLE IF NOT EXISTS %s (
	company_name          TEXT NOT NULL,
	website               TEXT,
	founded               INTEGER,
	headquarters          TEXT,
	country               TEXT,
	latitude              DOUBLE PRECISION,
	longitude             DOUBLE PRECISION,
	funding_stage         TEXT,
	funding_amount        DOUBLE PRECISION,
	category              TEXT,
	uses_ai_to            TEXT,
	allows_researchers_to TEXT
)`

// LoadPostgres reads every record of table into a Dataset.
func LoadPostgres(ctx context.Context, db DBTX, table string) (*Dataset, error) {
	ident := pgx.Identifier{table}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY company_name",
		strings.Join(DatasetColumns, ", "), ident.Sanitize())

	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("dataset source: query %s: %w", table, err)
	}
	defer rows.Close()

	var companies []Company
	for rows.Next() {
		var (
			name, website, hq, country, stage, category pgtype.Text
			usesAI, allows                              pgtype.Text
			founded                                     pgtype.Int4
			lat, lon, amount                            pgtype.Float8
		)
		if err := rows.Scan(&name, &website, &founded, &hq, &country, &lat, &lon,
			&stage, &amount, &category, &usesAI, &allows); err != nil {
			return nil, fmt.Errorf("dataset source: scan row: %w", err)
		}

		c := Company{
			Name:                name.String,
			Website:             website.String,
			Headquarters:        hq.String,
			Country:             country.String,
			FundingStage:        stage.String,
			Category:            category.String,
			UsesAITo:            usesAI.String,
			AllowsResearchersTo: allows.String,
		}
		if founded.Valid {
			c.Founded = int(founded.Int32)
		}
		if amount.Valid {
			c.FundingAmount = amount.Float64
		}
		if lat.Valid && lon.Valid {
			c.Latitude, c.Longitude, c.HasLocation = lat.Float64, lon.Float64, true
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dataset source: rows error: %w", err)
	}

	return NewDataset(companies, "postgres:"+table), nil
}

// SeedPostgres replaces the contents of table with the dataset using the
// COPY protocol. The table is created if needed.
func SeedPostgres(ctx context.Context, db DBTX, table string, ds *Dataset) (int64, error) {
	ident := pgx.Identifier{table}

	if _, err := db.Exec(ctx, fmt.Sprintf(companyTableDDL, ident.Sanitize())); err != nil {
		return 0, fmt.Errorf("dataset source: create table: %w", err)
	}
	if _, err := db.Exec(ctx, "TRUNCATE "+ident.Sanitize()); err != nil {
		return 0, fmt.Errorf("dataset source: truncate: %w", err)
	}

	rows := make([][]any, 0, ds.Len())
	for _, c := range ds.Companies() {
		rows = append(rows, CopyRow(c))
	}

	n, err := db.CopyFrom(ctx, ident, DatasetColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("dataset source: copy: %w", err)
	}
	return n, nil
}

// CopyRow converts a record to COPY values in DatasetColumns order.
// Missing values become SQL NULL.
func CopyRow(c Company) []any {
	row := []any{
		c.Name,
		nullText(c.Website),
		pgtype.Int4{Int32: int32(c.Founded), Valid: c.Founded != 0},
		nullText(c.Headquarters),
		nullText(c.Country),
		pgtype.Float8{Float64: c.Latitude, Valid: c.HasLocation},
		pgtype.Float8{Float64: c.Longitude, Valid: c.HasLocation},
		nullText(c.FundingStage),
		c.FundingAmount,
		nullText(c.Category),
		nullText(c.UsesAITo),
		nullText(c.AllowsResearchersTo),
	}
	return row
}

func nullText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
