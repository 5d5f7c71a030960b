package mysql

const upsertPropertySQL = `
INSERT INTO properties
  (id, name, location, address, price, currency, amenities, description, images,
   check_in_time, check_out_time, min_stay, property_type, bedrooms, bathrooms, guests)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name           = VALUES(name),
  location       = VALUES(location),
  address        = VALUES(address),
  price          = VALUES(price),
  currency       = VALUES(currency),
  amenities      = VALUES(amenities),
  description    = VALUES(description),
  images         = VALUES(images),
  check_in_time  = VALUES(check_in_time),
  check_out_time = VALUES(check_out_time),
  min_stay       = VALUES(min_stay),
  property_type  = VALUES(property_type),
  bedrooms       = VALUES(bedrooms),
  bathrooms      = VALUES(bathrooms),
  guests         = VALUES(guests),
  updated_at     = CURRENT_TIMESTAMP
`

// Note: `text` is reserved; keep it quoted everywhere.
const insertReviewsPrefix = "INSERT INTO reviews\n" +
	"  (id, property_id, listing_name, channel, review_type, status, rating, categories, `text`, submitted_at, guest_name)\nVALUES "

// COALESCE keeps the old value if the re-ingested one is NULL;
// manager_approved is deliberately absent so moderation survives re-ingestion.
const insertReviewsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  listing_name = VALUES(listing_name),\n" +
	"  review_type  = VALUES(review_type),\n" +
	"  status       = VALUES(status),\n" +
	"  rating       = COALESCE(VALUES(rating), reviews.rating),\n" +
	"  categories   = COALESCE(VALUES(categories), reviews.categories),\n" +
	"  `text`       = COALESCE(VALUES(`text`), reviews.`text`),\n" +
	"  submitted_at = VALUES(submitted_at),\n" +
	"  guest_name   = COALESCE(VALUES(guest_name), reviews.guest_name)\n"

const insertMissSQL = `
INSERT INTO ingest_misses (channel, http_status, reason)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE seen_at = CURRENT_TIMESTAMP, http_status = VALUES(http_status), reason = VALUES(reason)
`

const getPropertySQL = `
SELECT
  id, name, location, address, price, currency, amenities, description, images,
  check_in_time, check_out_time, min_stay, property_type, bedrooms, bathrooms, guests
FROM properties
WHERE id = ?
`

const listReviewsBaseSQL = `
SELECT
  id, property_id, listing_name, channel, review_type, status,
  rating, categories, ` + "`text`" + `, submitted_at, guest_name, manager_approved
FROM reviews
`

const toggleApprovalSQL = `UPDATE reviews SET manager_approved = NOT manager_approved WHERE id = ?`

const getApprovalSQL = `SELECT manager_approved FROM reviews WHERE id = ?`

const listApprovalsSQL = `SELECT id, manager_approved FROM reviews`
