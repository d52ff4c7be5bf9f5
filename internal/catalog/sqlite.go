package catalog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store using SQLite, following the schema style of
// the wider codebase: CREATE TABLE IF NOT EXISTS, explicit indexes, and
// transactions for every multi-row write.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (without initializing) a SQLite-backed catalogue at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// Init creates the schema described in §6's persistence layout.
func (s *SQLiteStore) Init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS solvers (
		id INTEGER PRIMARY KEY,
		key TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL,
		default_version TEXT,
		description TEXT,
		category TEXT,
		features TEXT,
		preprocessing INTEGER DEFAULT 0,
		inprocessing INTEGER DEFAULT 0,
		parallel INTEGER DEFAULT 0,
		incremental INTEGER DEFAULT 0,
		executable_path TEXT
	);

	CREATE TABLE IF NOT EXISTS instances (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		filename TEXT UNIQUE NOT NULL,
		path TEXT NOT NULL,
		family TEXT,
		difficulty TEXT,
		size_bytes INTEGER,
		num_vars INTEGER,
		num_clauses INTEGER,
		cv_ratio REAL,
		checksum TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_instances_family ON instances(family);

	CREATE TABLE IF NOT EXISTS experiments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT UNIQUE NOT NULL,
		description TEXT,
		timeout_seconds INTEGER NOT NULL,
		memory_limit_mib INTEGER NOT NULL,
		parallelism INTEGER NOT NULL,
		status TEXT NOT NULL,
		total INTEGER NOT NULL DEFAULT 0,
		completed INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		started_at DATETIME,
		completed_at DATETIME,
		solver_ids TEXT,
		instance_ids TEXT
	);

	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		experiment_id INTEGER NOT NULL REFERENCES experiments(id) ON DELETE CASCADE,
		solver_id INTEGER NOT NULL REFERENCES solvers(id) ON DELETE CASCADE,
		instance_id INTEGER NOT NULL REFERENCES instances(id) ON DELETE CASCADE,
		outcome TEXT NOT NULL,
		exit_code INTEGER,
		wall REAL,
		cpu REAL,
		user_s REAL,
		system_s REAL,
		max_mem_kib INTEGER,
		avg_mem_kib INTEGER,
		ctx_vol INTEGER,
		ctx_invol INTEGER,
		page_faults INTEGER,
		conflicts INTEGER,
		decisions INTEGER,
		propagations INTEGER,
		restarts INTEGER,
		learnt INTEGER,
		deleted INTEGER,
		extra TEXT,
		stdout_prefix TEXT,
		error_message TEXT,
		timestamp DATETIME NOT NULL,
		UNIQUE(experiment_id, solver_id, instance_id)
	);
	CREATE INDEX IF NOT EXISTS idx_runs_experiment ON runs(experiment_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// UpsertSolver inserts or updates a solver keyed by Key, honouring an
// explicit ID when the registry already assigned one (legacy-id reservation
// lives in the registry; the store just persists whatever id it is given).
func (s *SQLiteStore) UpsertSolver(sol *Solver) (int64, error) {
	featuresJSON, err := json.Marshal(sol.Features)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal features: %w", err)
	}

	if sol.ID != 0 {
		_, err = s.db.Exec(`
			INSERT INTO solvers (id, key, name, default_version, description, category, features,
				preprocessing, inprocessing, parallel, incremental, executable_path)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				key=excluded.key, name=excluded.name, default_version=excluded.default_version,
				description=excluded.description, category=excluded.category, features=excluded.features,
				preprocessing=excluded.preprocessing, inprocessing=excluded.inprocessing,
				parallel=excluded.parallel, incremental=excluded.incremental,
				executable_path=excluded.executable_path
		`, sol.ID, sol.Key, sol.Name, sol.DefaultVersion, sol.Description, string(sol.Category), string(featuresJSON),
			boolToInt(sol.Capabilities.Preprocessing), boolToInt(sol.Capabilities.Inprocessing),
			boolToInt(sol.Capabilities.Parallel), boolToInt(sol.Capabilities.Incremental), sol.ExecutablePath)
		if err != nil {
			return 0, fmt.Errorf("failed to upsert solver: %w", err)
		}
		return sol.ID, nil
	}

	existing, err := s.GetSolverByKey(sol.Key)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		sol.ID = existing.ID
		return s.UpsertSolver(sol)
	}

	res, err := s.db.Exec(`
		INSERT INTO solvers (key, name, default_version, description, category, features,
			preprocessing, inprocessing, parallel, incremental, executable_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, sol.Key, sol.Name, sol.DefaultVersion, sol.Description, string(sol.Category), string(featuresJSON),
		boolToInt(sol.Capabilities.Preprocessing), boolToInt(sol.Capabilities.Inprocessing),
		boolToInt(sol.Capabilities.Parallel), boolToInt(sol.Capabilities.Incremental), sol.ExecutablePath)
	if err != nil {
		return 0, fmt.Errorf("failed to insert solver: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get solver id: %w", err)
	}
	sol.ID = id
	return id, nil
}

func scanSolver(row interface {
	Scan(...any) error
}) (*Solver, error) {
	var sol Solver
	var category, features string
	var prep, inproc, par, incr int
	err := row.Scan(&sol.ID, &sol.Key, &sol.Name, &sol.DefaultVersion, &sol.Description, &category, &features,
		&prep, &inproc, &par, &incr, &sol.ExecutablePath)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan solver: %w", err)
	}
	sol.Category = Category(category)
	if features != "" {
		if err := json.Unmarshal([]byte(features), &sol.Features); err != nil {
			return nil, fmt.Errorf("failed to unmarshal features: %w", err)
		}
	}
	sol.Capabilities = Capabilities{
		Preprocessing: prep != 0,
		Inprocessing:  inproc != 0,
		Parallel:      par != 0,
		Incremental:   incr != 0,
	}
	return &sol, nil
}

const solverColumns = `id, key, name, default_version, description, category, features,
	preprocessing, inprocessing, parallel, incremental, executable_path`

func (s *SQLiteStore) GetSolver(id int64) (*Solver, error) {
	row := s.db.QueryRow("SELECT "+solverColumns+" FROM solvers WHERE id = ?", id)
	return scanSolver(row)
}

func (s *SQLiteStore) GetSolverByKey(key string) (*Solver, error) {
	row := s.db.QueryRow("SELECT "+solverColumns+" FROM solvers WHERE key = ?", key)
	return scanSolver(row)
}

func (s *SQLiteStore) ListSolvers(filter SolverFilter) ([]*Solver, error) {
	query := "SELECT " + solverColumns + " FROM solvers"
	var args []any
	if filter.Category != "" {
		query += " WHERE category = ?"
		args = append(args, string(filter.Category))
	}
	query += " ORDER BY id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list solvers: %w", err)
	}
	defer rows.Close()

	var out []*Solver
	for rows.Next() {
		sol, err := scanSolver(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sol)
	}
	return out, rows.Err()
}

// AddInstance inserts an instance, returning the existing id on a filename
// conflict rather than erroring, per §4.5.
func (s *SQLiteStore) AddInstance(i *Instance) (int64, error) {
	var existingID int64
	err := s.db.QueryRow("SELECT id FROM instances WHERE filename = ?", i.Filename).Scan(&existingID)
	if err == nil {
		return existingID, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to check existing instance: %w", err)
	}

	res, err := s.db.Exec(`
		INSERT INTO instances (filename, path, family, difficulty, size_bytes, num_vars, num_clauses, cv_ratio, checksum)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, i.Filename, i.Path, i.Family, i.Difficulty, i.SizeBytes, i.NumVars, i.NumClauses, i.CVRatio, i.Checksum)
	if err != nil {
		return 0, fmt.Errorf("failed to insert instance: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get instance id: %w", err)
	}
	i.ID = id
	return id, nil
}

const instanceColumns = `id, filename, path, family, difficulty, size_bytes, num_vars, num_clauses, cv_ratio, checksum`

func scanInstance(row interface{ Scan(...any) error }) (*Instance, error) {
	var i Instance
	err := row.Scan(&i.ID, &i.Filename, &i.Path, &i.Family, &i.Difficulty, &i.SizeBytes, &i.NumVars, &i.NumClauses, &i.CVRatio, &i.Checksum)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan instance: %w", err)
	}
	return &i, nil
}

func (s *SQLiteStore) GetInstance(id int64) (*Instance, error) {
	row := s.db.QueryRow("SELECT "+instanceColumns+" FROM instances WHERE id = ?", id)
	return scanInstance(row)
}

func (s *SQLiteStore) ListInstances(filter InstanceFilter) ([]*Instance, error) {
	query := "SELECT " + instanceColumns + " FROM instances"
	var clauses []string
	var args []any
	if filter.Family != "" {
		clauses = append(clauses, "family = ?")
		args = append(args, filter.Family)
	}
	if filter.Difficulty != "" {
		clauses = append(clauses, "difficulty = ?")
		args = append(args, filter.Difficulty)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list instances: %w", err)
	}
	defer rows.Close()

	var out []*Instance
	for rows.Next() {
		i, err := scanInstance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) CreateExperiment(e *Experiment) (int64, error) {
	solverIDs, err := json.Marshal(e.SolverIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal solver ids: %w", err)
	}
	instanceIDs, err := json.Marshal(e.InstanceIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal instance ids: %w", err)
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if e.Status == "" {
		e.Status = StatusPending
	}

	res, err := s.db.Exec(`
		INSERT INTO experiments (name, description, timeout_seconds, memory_limit_mib, parallelism,
			status, total, completed, failed, created_at, solver_ids, instance_ids)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.Name, e.Description, e.TimeoutSeconds, e.MemoryLimitMiB, e.Parallelism,
		string(e.Status), e.Total, e.Completed, e.Failed, e.CreatedAt, string(solverIDs), string(instanceIDs))
	if err != nil {
		return 0, fmt.Errorf("failed to insert experiment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get experiment id: %w", err)
	}
	e.ID = id
	return id, nil
}

const experimentColumns = `id, name, description, timeout_seconds, memory_limit_mib, parallelism,
	status, total, completed, failed, created_at, started_at, completed_at, solver_ids, instance_ids`

func scanExperiment(row interface{ Scan(...any) error }) (*Experiment, error) {
	var e Experiment
	var status, solverIDs, instanceIDs string
	var startedAt, completedAt sql.NullTime
	err := row.Scan(&e.ID, &e.Name, &e.Description, &e.TimeoutSeconds, &e.MemoryLimitMiB, &e.Parallelism,
		&status, &e.Total, &e.Completed, &e.Failed, &e.CreatedAt, &startedAt, &completedAt, &solverIDs, &instanceIDs)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan experiment: %w", err)
	}
	e.Status = Status(status)
	if startedAt.Valid {
		e.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		e.CompletedAt = &completedAt.Time
	}
	if solverIDs != "" {
		_ = json.Unmarshal([]byte(solverIDs), &e.SolverIDs)
	}
	if instanceIDs != "" {
		_ = json.Unmarshal([]byte(instanceIDs), &e.InstanceIDs)
	}
	return &e, nil
}

func (s *SQLiteStore) GetExperiment(id int64) (*Experiment, error) {
	row := s.db.QueryRow("SELECT "+experimentColumns+" FROM experiments WHERE id = ?", id)
	return scanExperiment(row)
}

func (s *SQLiteStore) ListExperiments() ([]*Experiment, error) {
	rows, err := s.db.Query("SELECT " + experimentColumns + " FROM experiments ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list experiments: %w", err)
	}
	defer rows.Close()

	var out []*Experiment
	for rows.Next() {
		e, err := scanExperiment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// UpdateExperiment applies patch to the current row inside a transaction so
// concurrent readers never see a half-updated experiment.
func (s *SQLiteStore) UpdateExperiment(id int64, patch func(*Experiment)) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRow("SELECT "+experimentColumns+" FROM experiments WHERE id = ?", id)
	e, err := scanExperiment(row)
	if err != nil {
		return err
	}
	if e == nil {
		return fmt.Errorf("experiment %d not found", id)
	}

	patch(e)

	solverIDs, _ := json.Marshal(e.SolverIDs)
	instanceIDs, _ := json.Marshal(e.InstanceIDs)
	_, err = tx.Exec(`
		UPDATE experiments SET name=?, description=?, timeout_seconds=?, memory_limit_mib=?, parallelism=?,
			status=?, total=?, completed=?, failed=?, started_at=?, completed_at=?, solver_ids=?, instance_ids=?
		WHERE id=?
	`, e.Name, e.Description, e.TimeoutSeconds, e.MemoryLimitMiB, e.Parallelism,
		string(e.Status), e.Total, e.Completed, e.Failed, e.StartedAt, e.CompletedAt,
		string(solverIDs), string(instanceIDs), id)
	if err != nil {
		return fmt.Errorf("failed to update experiment: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) DeleteExperiment(id int64) error {
	_, err := s.db.Exec("DELETE FROM experiments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete experiment: %w", err)
	}
	return nil
}

// RecordRun persists run and advances the owning experiment's counters
// atomically, satisfying §4.5's isolation requirement.
func (s *SQLiteStore) RecordRun(run *Run, completedDelta, failedDelta int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	extraJSON, err := json.Marshal(run.Extra)
	if err != nil {
		return fmt.Errorf("failed to marshal extra stats: %w", err)
	}
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now().UTC()
	}

	_, err = tx.Exec(`
		INSERT INTO runs (experiment_id, solver_id, instance_id, outcome, exit_code, wall, cpu, user_s, system_s,
			max_mem_kib, avg_mem_kib, ctx_vol, ctx_invol, page_faults,
			conflicts, decisions, propagations, restarts, learnt, deleted,
			extra, stdout_prefix, error_message, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(experiment_id, solver_id, instance_id) DO UPDATE SET
			outcome=excluded.outcome, exit_code=excluded.exit_code, wall=excluded.wall,
			cpu=excluded.cpu, user_s=excluded.user_s, system_s=excluded.system_s,
			max_mem_kib=excluded.max_mem_kib, avg_mem_kib=excluded.avg_mem_kib,
			ctx_vol=excluded.ctx_vol, ctx_invol=excluded.ctx_invol, page_faults=excluded.page_faults,
			conflicts=excluded.conflicts, decisions=excluded.decisions, propagations=excluded.propagations,
			restarts=excluded.restarts, learnt=excluded.learnt, deleted=excluded.deleted,
			extra=excluded.extra, stdout_prefix=excluded.stdout_prefix, error_message=excluded.error_message,
			timestamp=excluded.timestamp
	`, run.ExperimentID, run.SolverID, run.InstanceID, string(run.Outcome), run.ExitCode,
		run.WallSeconds, run.CPUSeconds, run.UserSeconds, run.SystemSeconds,
		run.MaxMemKiB, run.AvgMemKiB, run.CtxVol, run.CtxInvol, run.PageFaults,
		run.Conflicts, run.Decisions, run.Propagations, run.Restarts, run.LearntClauses, run.DeletedClauses,
		string(extraJSON), run.StdoutPrefix, run.ErrorMessage, run.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to upsert run: %w", err)
	}

	if completedDelta != 0 || failedDelta != 0 {
		_, err = tx.Exec(`UPDATE experiments SET completed = completed + ?, failed = failed + ? WHERE id = ?`,
			completedDelta, failedDelta, run.ExperimentID)
		if err != nil {
			return fmt.Errorf("failed to update experiment counters: %w", err)
		}
	}

	return tx.Commit()
}

const runColumns = `id, experiment_id, solver_id, instance_id, outcome, exit_code, wall, cpu, user_s, system_s,
	max_mem_kib, avg_mem_kib, ctx_vol, ctx_invol, page_faults,
	conflicts, decisions, propagations, restarts, learnt, deleted,
	extra, stdout_prefix, error_message, timestamp`

func scanRun(row interface{ Scan(...any) error }) (*Run, error) {
	var r Run
	var outcome, extra string
	err := row.Scan(&r.ID, &r.ExperimentID, &r.SolverID, &r.InstanceID, &outcome, &r.ExitCode,
		&r.WallSeconds, &r.CPUSeconds, &r.UserSeconds, &r.SystemSeconds,
		&r.MaxMemKiB, &r.AvgMemKiB, &r.CtxVol, &r.CtxInvol, &r.PageFaults,
		&r.Conflicts, &r.Decisions, &r.Propagations, &r.Restarts, &r.LearntClauses, &r.DeletedClauses,
		&extra, &r.StdoutPrefix, &r.ErrorMessage, &r.Timestamp)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	r.Outcome = Outcome(outcome)
	if extra != "" {
		_ = json.Unmarshal([]byte(extra), &r.Extra)
	}
	return &r, nil
}

func (s *SQLiteStore) GetRun(experimentID, solverID, instanceID int64) (*Run, error) {
	row := s.db.QueryRow("SELECT "+runColumns+" FROM runs WHERE experiment_id=? AND solver_id=? AND instance_id=?",
		experimentID, solverID, instanceID)
	return scanRun(row)
}

func (s *SQLiteStore) ListRuns(filter RunFilter) ([]*Run, error) {
	query := "SELECT " + runColumns + " FROM runs"
	var clauses []string
	var args []any
	if filter.ExperimentID != 0 {
		clauses = append(clauses, "experiment_id = ?")
		args = append(args, filter.ExperimentID)
	}
	if filter.SolverID != 0 {
		clauses = append(clauses, "solver_id = ?")
		args = append(args, filter.SolverID)
	}
	if filter.InstanceID != 0 {
		clauses = append(clauses, "instance_id = ?")
		args = append(args, filter.InstanceID)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var out []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DashboardStats() (*DashboardStats, error) {
	var stats DashboardStats
	row := s.db.QueryRow(`SELECT
		(SELECT COUNT(*) FROM solvers),
		(SELECT COUNT(*) FROM instances),
		(SELECT COUNT(*) FROM experiments),
		(SELECT COUNT(*) FROM runs),
		(SELECT COUNT(*) FROM experiments WHERE status = 'running')
	`)
	err := row.Scan(&stats.TotalSolvers, &stats.TotalInstances, &stats.TotalExperiments,
		&stats.TotalRuns, &stats.RunningExperiments)
	if err != nil {
		return nil, fmt.Errorf("failed to query dashboard stats: %w", err)
	}
	return &stats, nil
}
