package mysql

const upsertAppsPrefix = `
INSERT INTO apps
  (source, name, run_id, category, rating, review_count, installs, type, price,
   content_rating, size_bytes, required_version, last_updated, avg_sentiment_polarity)
VALUES `

const appsRowPlaceholder = "(?,?,?,?,?,?,?,?,?,?,?,?,?,?)"

const appsColumnsPerRow = 14

// Use VALUES(col) for broad compatibility; the latest run wins.
const upsertAppsOnDup = `
ON DUPLICATE KEY UPDATE
  run_id                 = VALUES(run_id),
  category               = VALUES(category),
  rating                 = VALUES(rating),
  review_count           = VALUES(review_count),
  installs               = VALUES(installs),
  type                   = VALUES(type),
  price                  = VALUES(price),
  content_rating         = VALUES(content_rating),
  size_bytes             = VALUES(size_bytes),
  required_version       = VALUES(required_version),
  last_updated           = VALUES(last_updated),
  avg_sentiment_polarity = VALUES(avg_sentiment_polarity),
  updated_at             = CURRENT_TIMESTAMP
`

const insertRunSQL = `
INSERT INTO pipeline_runs
  (run_id, started_at, finished_at, cleaned_rows, combined_rows, cache_hits, new_fetches, failed, mock)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const countByCategorySQL = `
SELECT source, category, COUNT(*)
FROM apps
WHERE run_id = ? AND category IS NOT NULL
GROUP BY source, category
ORDER BY source, category
`
