// Package sqlite implements the durable SQLite backend for the Gymkeeper
// storage system.
package sqlite

// Schema DDL. Each statement is independent and idempotent (create-if-absent)
// so the CreatingSchema stage can re-run safely.
const (
	createUsers = `CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    mobile_number TEXT UNIQUE NOT NULL,
    pin TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createMembers = `CREATE TABLE IF NOT EXISTS members (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    phone TEXT NOT NULL,
    email TEXT,
    address TEXT,
    avatar_url TEXT,
    membership_type TEXT NOT NULL,
    start_date TEXT NOT NULL,
    end_date TEXT NOT NULL,
    is_active INTEGER NOT NULL DEFAULT 1,
    last_payment_date TEXT,
    next_payment_date TEXT,
    notes TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createReminders = `CREATE TABLE IF NOT EXISTS reminders (
    id TEXT PRIMARY KEY,
    member_id TEXT NOT NULL,
    type TEXT NOT NULL,
    title TEXT NOT NULL,
    message TEXT NOT NULL,
    scheduled_date TEXT NOT NULL,
    is_sent INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
);`

	createBackupSettings = `CREATE TABLE IF NOT EXISTS backup_settings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    frequency TEXT NOT NULL DEFAULT 'weekly',
    is_enabled INTEGER NOT NULL DEFAULT 0,
    last_backup TEXT,
    next_backup TEXT
);`

	createPayments = `CREATE TABLE IF NOT EXISTS payment_transactions (
    id TEXT PRIMARY KEY,
    member_id TEXT NOT NULL,
    amount REAL NOT NULL,
    payment_date TEXT NOT NULL,
    payment_mode TEXT NOT NULL,
    description TEXT,
    created_at TEXT NOT NULL
);`
)

// Index DDL for common queries.
const (
	idxRemindersMember = `CREATE INDEX IF NOT EXISTS idx_reminders_member ON reminders(member_id);`
	idxPaymentsMember  = `CREATE INDEX IF NOT EXISTS idx_payments_member ON payment_transactions(member_id);`
	idxMembersEndDate  = `CREATE INDEX IF NOT EXISTS idx_members_end_date ON members(end_date);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createUsers,
	createMembers,
	createReminders,
	createBackupSettings,
	createPayments,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxRemindersMember,
	idxPaymentsMember,
	idxMembersEndDate,
}
