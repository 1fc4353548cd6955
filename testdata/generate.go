// Command generate writes the sample parquet files used for manual testing:
//
//	go run ./testdata/generate.go
//	pq2csv testdata/orders.parquet
package main

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
)

type Customer struct {
	Name string `parquet:"name"`
	City string `parquet:"city"`
}

type Order struct {
	ID       int64     `parquet:"id"`
	Ref      [16]byte  `parquet:"ref,uuid"`
	Customer Customer  `parquet:"customer"`
	Amount   int64     `parquet:"amount,decimal(2:12)"`
	Discount *float64  `parquet:"discount,optional"`
	Paid     bool      `parquet:"paid"`
	Day      int32     `parquet:"day,date"`
	Created  time.Time `parquet:"created,timestamp(millisecond)"`
	Note     *string   `parquet:"note,optional"`
	Tags     []string  `parquet:"tags,list"`
}

func ptr[T any](v T) *T { return &v }

func main() {
	dir := "testdata"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	created := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	day := int32(created.Unix() / 86400)

	orders := []Order{
		{ID: 1, Ref: uuid.New(), Customer: Customer{"alice", "Lisbon"}, Amount: 12999, Discount: ptr(0.1), Paid: true, Day: day, Created: created, Note: ptr("gift, wrapped"), Tags: []string{"new", "priority"}},
		{ID: 2, Ref: uuid.New(), Customer: Customer{"bob", "Porto"}, Amount: 500, Paid: false, Day: day + 1, Created: created.Add(26 * time.Hour)},
		{ID: 3, Ref: uuid.New(), Customer: Customer{"chloë", "Faro"}, Amount: -2050, Discount: ptr(0.25), Paid: true, Day: day + 2, Created: created.Add(50 * time.Hour), Note: ptr("refund\n\"partial\""), Tags: []string{"refund"}},
	}

	write(filepath.Join(dir, "orders.parquet"), orders)
	write(filepath.Join(dir, "empty.parquet"), []Order{})
}

func write[T any](path string, rows []T) {
	file, err := os.Create(path)
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(rows); err != nil {
		log.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		log.Fatal(err)
	}

	log.Printf("Generated %s with %d rows", path, len(rows))
}
