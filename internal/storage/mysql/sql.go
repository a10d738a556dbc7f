package mysql

// The catalog table holds exactly one snapshot; it is emptied and refilled in
// one transaction per cycle.
const deleteCatalogSQL = `DELETE FROM catalog_hotels`

const insertCatalogPrefix = "INSERT INTO catalog_hotels\n  (id, destination_id, name, payload, cycle_id)\nVALUES "

// rows per INSERT; keeps placeholders well under the 65535 protocol limit
const insertCatalogBatch = 500

const insertRunSQL = `
INSERT INTO refresh_runs
  (cycle_id, started_at, finished_at, status, hotels, error)
VALUES
  (?, ?, ?, ?, ?, ?)
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const listRunsSQL = `
SELECT cycle_id, started_at, finished_at, status, hotels, error
FROM refresh_runs
ORDER BY started_at DESC, cycle_id
LIMIT ?
`
