package mysql

// Rows are never updated; seq gives the per-session order.
const insertMessagePrefix = "INSERT INTO messages\n  (id, session_id, sender, kind, payload, created_at)\nVALUES "

const listMessagesSQL = `
SELECT payload
FROM messages
WHERE session_id = ?
ORDER BY seq`

const getMessageSQL = `
SELECT payload
FROM messages
WHERE session_id = ? AND id = ?`

const listSessionsSQL = `
SELECT session_id, COUNT(*), MAX(created_at)
FROM messages
GROUP BY session_id
ORDER BY MAX(created_at) DESC
LIMIT ?`
