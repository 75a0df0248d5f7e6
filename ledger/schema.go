// ledger/schema.go
package ledger

const Schema = `
CREATE TABLE IF NOT EXISTS instruments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ticker TEXT UNIQUE NOT NULL,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS buys (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	instrument_id INTEGER NOT NULL,
	date TEXT NOT NULL,
	count INTEGER NOT NULL,
	total_cost TEXT NOT NULL,
	remaining_count INTEGER NOT NULL,
	realized_gain TEXT NOT NULL,
	FOREIGN KEY (instrument_id) REFERENCES instruments(id)
);

CREATE TABLE IF NOT EXISTS sells (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	instrument_id INTEGER NOT NULL,
	date TEXT NOT NULL,
	count INTEGER NOT NULL,
	total_proceeds TEXT NOT NULL,
	FOREIGN KEY (instrument_id) REFERENCES instruments(id)
);

CREATE INDEX IF NOT EXISTS idx_buys_instrument_date ON buys(instrument_id, date, id);
CREATE INDEX IF NOT EXISTS idx_sells_instrument_date ON sells(instrument_id, date, id);
`
