package mysql

const upsertStateSQL = `
INSERT INTO session_state
  (session_id, state_key, value, expires_at)
VALUES
  (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  value      = VALUES(value),
  expires_at = VALUES(expires_at),
  updated_at = CURRENT_TIMESTAMP
`

// expired rows read as missing; PurgeExpired removes them for good
const getStateSQL = `
SELECT value
FROM session_state
WHERE session_id = ? AND state_key = ?
  AND (expires_at IS NULL OR expires_at > UTC_TIMESTAMP())
`

const deleteStateSQL = `
DELETE FROM session_state WHERE session_id = ? AND state_key = ?
`

const purgeExpiredSQL = `
DELETE FROM session_state WHERE expires_at IS NOT NULL AND expires_at <= UTC_TIMESTAMP()
`
