package database

const (
	// User queries
	queryGetUsers = `
		SELECT id, name, email, created_at, updated_at
		FROM users
		ORDER BY created_at`

	queryInsertUser = `
		INSERT OR IGNORE INTO users (id, name, email) VALUES (?, ?, ?)`

	queryGetUserById = `
		SELECT id, name, email, created_at, updated_at
		FROM users
		WHERE id = ?`

	queryGetUserByEmail = `
		SELECT id, name, email, created_at, updated_at
		FROM users
		WHERE email = ?`

	// Session queries
	queryInsertSession = `
		INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)`

	queryGetSession = `
		SELECT token, user_id, expires_at, created_at
		FROM sessions
		WHERE token = ?`

	// Holding queries
	queryGetHolding = `
		SELECT id, user_id, gold_type, quantity, avg_price, version, created_at, updated_at
		FROM holdings
		WHERE user_id = ? AND gold_type = ?`

	queryGetHoldings = `
		SELECT id, user_id, gold_type, quantity, avg_price, version, created_at, updated_at
		FROM holdings
		WHERE user_id = ?
		ORDER BY gold_type`

	queryGetHoldingPosition = `
		SELECT id, quantity, avg_price, version
		FROM holdings
		WHERE user_id = ? AND gold_type = ?`

	queryInsertHolding = `
		INSERT INTO holdings (id, user_id, gold_type, quantity, avg_price, version)
		VALUES (?, ?, ?, ?, ?, 1)`

	queryUpdateHolding = `
		UPDATE holdings
		SET quantity = ?, avg_price = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND gold_type = ? AND version = ?`

	// Trade queries
	queryInsertTrade = `
		INSERT INTO trades (id, user_id, side, gold_type, quantity, price, total, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetTrades = `
		SELECT id, user_id, side, gold_type, quantity, price, total, status, created_at
		FROM trades
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`

	// Price alert queries
	queryInsertAlert = `
		INSERT INTO price_alerts (id, user_id, gold_type, target_price, condition, active)
		VALUES (?, ?, ?, ?, ?, 1)`

	queryGetAlertsByUser = `
		SELECT id, user_id, gold_type, target_price, condition, active, created_at, triggered_at
		FROM price_alerts
		WHERE user_id = ?
		ORDER BY created_at DESC`

	queryListActiveAlerts = `
		SELECT id, user_id, gold_type, target_price, condition, active, created_at, triggered_at
		FROM price_alerts
		WHERE active = 1
		ORDER BY created_at`

	queryDeactivateAlert = `
		UPDATE price_alerts
		SET active = 0, triggered_at = CURRENT_TIMESTAMP
		WHERE id = ? AND active = 1`

	// Notification queries
	queryInsertNotification = `
		INSERT INTO notifications (id, user_id, message, kind, payload, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, 0, ?)`

	queryGetNotifications = `
		SELECT id, user_id, message, kind, payload, is_read, created_at
		FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`

	queryMarkNotificationRead = `
		UPDATE notifications
		SET is_read = 1
		WHERE id = ?`

	// Market data queries
	queryInsertMarketData = `
		INSERT INTO market_data (id, gold_type, price, change_pct, volume)
		VALUES (?, ?, ?, ?, ?)`

	queryGetLatestMarketData = `
		SELECT id, gold_type, price, change_pct, volume, created_at
		FROM market_data
		WHERE rowid IN (SELECT MAX(rowid) FROM market_data GROUP BY gold_type)
		ORDER BY gold_type`
)
