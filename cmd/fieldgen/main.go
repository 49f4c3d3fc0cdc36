// fieldgen regenerates the field registry table from its CSV definition.
// Run it after editing fields.csv:
//
//	go run ./cmd/fieldgen -input internal/protocol/registry/fields.csv \
//	    -output internal/protocol/registry/fields_gen.go
package main

import (
	"bytes"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
)

type fieldRow struct {
	ID       uint32
	Name     string
	ProgNr   int
	Datatype string
	Divisor  int
	Max      int
	Path     string
}

func main() {
	input := flag.String("input", "internal/protocol/registry/fields.csv", "field definition CSV")
	output := flag.String("output", "internal/protocol/registry/fields_gen.go", "generated Go file")
	flag.Parse()

	raw, err := os.ReadFile(*input)
	if err != nil {
		log.Fatal(err)
	}
	rows, err := parseRows(raw)
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(*output, render(rows), 0o644); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %d fields to %s", len(rows), *output)
}

func parseRows(raw []byte) ([]fieldRow, error) {
	records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 || strings.Join(records[0], ",") != "id,name,prognr,data_type,path" {
		return nil, fmt.Errorf("parse csv: unexpected header")
	}

	rows := make([]fieldRow, 0, len(records)-1)
	seen := make(map[uint32]string, len(records)-1)
	for i, rec := range records[1:] {
		line := i + 2
		if len(rec) != 5 {
			return nil, fmt.Errorf("line %d: expected 5 columns, got %d", line, len(rec))
		}
		id, err := strconv.ParseUint(strings.TrimPrefix(rec[0], "0x"), 16, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: field id %q: %w", line, rec[0], err)
		}
		if prev, dup := seen[uint32(id)]; dup {
			return nil, fmt.Errorf("line %d: field id %s already used by %s", line, rec[0], prev)
		}
		seen[uint32(id)] = rec[1]

		prognr, err := strconv.Atoi(rec[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: prognr %q: %w", line, rec[2], err)
		}
		row := fieldRow{
			ID:     uint32(id),
			Name:   rec[1],
			ProgNr: prognr,
			Path:   rec[4],
		}
		if err := parseDatatype(rec[3], &row); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

// parseDatatype reads "Float(10)", "Setting(2)" or a bare datatype name. The
// parenthesized argument is the divisor for floats and the maximum for
// settings; the other types take none.
func parseDatatype(s string, row *fieldRow) error {
	name := s
	arg := 0
	if open := strings.IndexByte(s, '('); open >= 0 {
		if !strings.HasSuffix(s, ")") {
			return fmt.Errorf("datatype %q: unbalanced parenthesis", s)
		}
		name = s[:open]
		n, err := strconv.Atoi(s[open+1 : len(s)-1])
		if err != nil {
			return fmt.Errorf("datatype %q: %w", s, err)
		}
		arg = n
	}

	switch name {
	case "Float":
		if arg <= 0 {
			return fmt.Errorf("datatype %q: Float needs a positive divisor", s)
		}
		row.Datatype = "DatatypeFloat"
		row.Divisor = arg
	case "Setting":
		row.Datatype = "DatatypeSetting"
		row.Max = arg
	case "Number", "DateTime", "Schedule", "Enum":
		if arg != 0 {
			return fmt.Errorf("datatype %q: %s takes no argument", s, name)
		}
		row.Datatype = "Datatype" + name
	default:
		return fmt.Errorf("unknown datatype %q", s)
	}
	return nil
}

func render(rows []fieldRow) []byte {
	var b bytes.Buffer
	b.WriteString("// Code generated by fieldgen from fields.csv. DO NOT EDIT.\n\n")
	b.WriteString("package registry\n\n")
	b.WriteString("var fields = map[uint32]Descriptor{\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "\t0x%08X: {ID: 0x%08X, Name: %q, ProgNr: %d, Type: %s",
			r.ID, r.ID, r.Name, r.ProgNr, r.Datatype)
		if r.Divisor > 0 {
			fmt.Fprintf(&b, ", Divisor: %d", r.Divisor)
		}
		if r.Max > 0 {
			fmt.Fprintf(&b, ", Max: %d", r.Max)
		}
		fmt.Fprintf(&b, ", Path: %q},\n", r.Path)
	}
	b.WriteString("}\n")
	return b.Bytes()
}
