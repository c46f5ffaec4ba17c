// Package testdb provides utilities for PostgreSQL integration tests.
//
// Tests locate the database through environment variables (DATABASE_URL first,
// then DRILL_TEST_DB_URL and DRILL_STORE_DSN). Without one the test is skipped
// locally and fails in CI, so a misconfigured pipeline cannot silently pass.
//
// Example:
//
//	func TestSomething(t *testing.T) {
//		db := testdb.GetTestDB(t)
//		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//			s := postgres.NewPostgresEventStore(tx, nil)
//			// ...
//		})
//	}
package testdb
