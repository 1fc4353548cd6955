// Package reader opens Apache Parquet tables and streams their rows.
//
// A table is read from a file path or, for stdin, from any io.Reader. The
// footer and schema are decoded up front so that malformed input is
// rejected before anything downstream runs. Rows are streamed in batches
// and handed out one at a time with their values grouped per leaf column.
//
// # Basic Usage
//
//	r, err := reader.NewReader("data.parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	rows := r.Rows()
//	defer rows.Close()
//	for rows.Next() {
//	    for i, values := range rows.Values() {
//	        fmt.Println(r.Columns()[i].Name, values)
//	    }
//	}
//	if err := rows.Err(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Columns
//
// Nested groups are flattened into leaf columns whose names use dot
// notation ("address.street"). Each Column carries its physical kind, its
// logical annotation and a user-friendly type name:
//
//	for _, col := range r.Columns() {
//	    fmt.Printf("%s: %s\n", col.Name, col.Type)
//	}
//
// # Resource Management
//
// Close the Reader and every Rows iterator when done. Values handed out by
// Rows.Values may reference decoder buffers and must be consumed before the
// iterator moves past the current batch.
//
// The package uses github.com/parquet-go/parquet-go for the underlying
// parquet file operations.
package reader
