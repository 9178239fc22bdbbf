package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS trips (
    id                   TEXT PRIMARY KEY,
    name                 TEXT NOT NULL UNIQUE COLLATE NOCASE,
    destination          TEXT,
    start_date           TEXT NOT NULL,
    end_date             TEXT NOT NULL,
    budget_setup_done    INTEGER NOT NULL DEFAULT 0,
    created_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS budgets (
    trip_id              TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
    category             TEXT NOT NULL,
    amount               REAL NOT NULL DEFAULT 0,
    accrual_type         TEXT NOT NULL,
    position             INTEGER NOT NULL,
    PRIMARY KEY (trip_id, category)
);

CREATE TABLE IF NOT EXISTS expenses (
    id                   TEXT PRIMARY KEY,
    trip_id              TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
    category             TEXT NOT NULL,
    amount               REAL NOT NULL,
    description          TEXT,
    spent_at             TEXT NOT NULL,
    source_file          TEXT
);

CREATE TABLE IF NOT EXISTS reservations (
    id                   TEXT PRIMARY KEY,
    trip_id              TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
    category             TEXT NOT NULL,
    name                 TEXT,
    amount               REAL NOT NULL,
    confirmed            INTEGER NOT NULL DEFAULT 0,
    date                 TEXT,
    source_file          TEXT
);

CREATE TABLE IF NOT EXISTS file_tracker (
    file_path            TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_expenses_trip ON expenses(trip_id, category);
CREATE INDEX IF NOT EXISTS idx_reservations_trip ON reservations(trip_id, category);
CREATE INDEX IF NOT EXISTS idx_budgets_position ON budgets(trip_id, position);
`
