package store

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/sanjacob/kangaroo/cert"
	"github.com/sanjacob/kangaroo/errors"
)

// Store reads and writes certificate records and batch run history.
type Store struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

// New creates a Store. A nil logger disables logging.
func New(db *sql.DB, log *zap.SugaredLogger) *Store {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Store{db: db, log: log}
}

// BatchRun is one recorded execution of a batch download.
type BatchRun struct {
	ID          string
	Batch       int
	BatchSize   int
	StartedAt   time.Time
	CompletedAt *time.Time
	Downloaded  int
	NotFound    int
	Failed      int
	OutputFile  string
	MD5         string
	SHA1        string
}

// Stats summarizes what has been harvested so far.
type Stats struct {
	Certificates       int
	WithCURP           int
	IdentityMatches    int
	IdentityMismatches int
	BatchRuns          int
}

// SaveRecord upserts a certificate record keyed by its portal number.
// Re-downloading a batch refreshes the stored copy.
func (s *Store) SaveRecord(ctx context.Context, record *cert.Record) error {
	var identityMatch sql.NullBool
	var nombrePila, apellido, apellidoM string
	if record.HasCURP() {
		identityMatch = sql.NullBool{Bool: record.Identidad != nil, Valid: true}
	}
	if record.Identidad != nil {
		nombrePila = record.Identidad.Nombre
		apellido = record.Identidad.Apellido
		apellidoM = record.Identidad.ApellidoM
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO certificates (
			number, nombre, plantel, clave_trabajo, rvoe, curp,
			matricula, promedio, periodo, tipo_certificado, certificado,
			identity_match, nombre_pila, apellido, apellido_m
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(number) DO UPDATE SET
			nombre = excluded.nombre,
			plantel = excluded.plantel,
			clave_trabajo = excluded.clave_trabajo,
			rvoe = excluded.rvoe,
			curp = excluded.curp,
			matricula = excluded.matricula,
			promedio = excluded.promedio,
			periodo = excluded.periodo,
			tipo_certificado = excluded.tipo_certificado,
			certificado = excluded.certificado,
			identity_match = excluded.identity_match,
			nombre_pila = excluded.nombre_pila,
			apellido = excluded.apellido,
			apellido_m = excluded.apellido_m,
			fetched_at = CURRENT_TIMESTAMP`,
		record.Number, record.Nombre, record.Plantel, record.ClaveTrabajo,
		record.RVOE, record.CURP, record.Matricula, record.Promedio,
		record.Periodo, record.TipoCertificado, record.Certificado,
		identityMatch, nombrePila, apellido, apellidoM,
	)
	if err != nil {
		return errors.Wrapf(err, "failed to save certificate %d", record.Number)
	}

	s.log.Debugw("Saved certificate", "number", record.Number, "certificado", record.Certificado)
	return nil
}

// SaveBatchRun inserts or updates a batch run entry.
func (s *Store) SaveBatchRun(ctx context.Context, run *BatchRun) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO batch_runs (
			id, batch, batch_size, started_at, completed_at,
			downloaded, not_found, failed, output_file, md5, sha1
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			completed_at = excluded.completed_at,
			downloaded = excluded.downloaded,
			not_found = excluded.not_found,
			failed = excluded.failed,
			output_file = excluded.output_file,
			md5 = excluded.md5,
			sha1 = excluded.sha1`,
		run.ID, run.Batch, run.BatchSize, run.StartedAt, run.CompletedAt,
		run.Downloaded, run.NotFound, run.Failed, run.OutputFile, run.MD5, run.SHA1,
	)
	if err != nil {
		return errors.Wrapf(err, "failed to save batch run %s", run.ID)
	}
	return nil
}

// Stats reports totals across everything stored.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(CASE WHEN curp != '' THEN 1 END),
			COUNT(CASE WHEN identity_match = 1 THEN 1 END),
			COUNT(CASE WHEN identity_match = 0 THEN 1 END)
		FROM certificates`,
	).Scan(&stats.Certificates, &stats.WithCURP, &stats.IdentityMatches, &stats.IdentityMismatches)
	if err != nil && err != sql.ErrNoRows {
		return Stats{}, errors.Wrap(err, "failed to query certificate stats")
	}

	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM batch_runs`).Scan(&stats.BatchRuns)
	if err != nil && err != sql.ErrNoRows {
		return Stats{}, errors.Wrap(err, "failed to query batch run stats")
	}

	return stats, nil
}
