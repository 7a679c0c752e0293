package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	checkEventsTable    = "check_events"
	llmEventsTable      = "llm_request_events"
	globalSequenceTable = "global_sequence"
)

// Every event table starts with the same three columns: id, sequence and
// timestamp.
func eventColumns(cols ...*schema.Column) []*schema.Column {
	return append([]*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
	}, cols...)
}

var (
	checkEventsColumns = eventColumns(
		&schema.Column{Name: "check_id", Type: field.TypeString, Unique: true},
		&schema.Column{Name: "mode", Type: field.TypeString},
		&schema.Column{Name: "function", Type: field.TypeString, Size: 2147483647},
		&schema.Column{Name: "steps", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "correct", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "passed", Type: field.TypeBool, Default: false},
		&schema.Column{Name: "report", Type: field.TypeString, Size: 2147483647},
	)
	checkEventsTableDef = &schema.Table{
		Name:       checkEventsTable,
		Columns:    checkEventsColumns,
		PrimaryKey: []*schema.Column{checkEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "checkevent_mode", Columns: []*schema.Column{checkEventsColumns[4]}},
			{Name: "checkevent_timestamp", Columns: []*schema.Column{checkEventsColumns[2]}},
		},
	}

	llmEventsColumns = eventColumns(
		&schema.Column{Name: "provider", Type: field.TypeString},
		&schema.Column{Name: "model", Type: field.TypeString},
		&schema.Column{Name: "purpose", Type: field.TypeString},
		&schema.Column{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		&schema.Column{Name: "success", Type: field.TypeBool},
		&schema.Column{Name: "error_message", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		&schema.Column{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	)
	llmEventsTableDef = &schema.Table{
		Name:       llmEventsTable,
		Columns:    llmEventsColumns,
		PrimaryKey: []*schema.Column{llmEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_provider", Columns: []*schema.Column{llmEventsColumns[3]}},
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmEventsColumns[5]}},
			{Name: "llmrequestevent_success", Columns: []*schema.Column{llmEventsColumns[9]}},
		},
	}

	globalSequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	globalSequenceTableDef = &schema.Table{
		Name:       globalSequenceTable,
		Columns:    globalSequenceColumns,
		PrimaryKey: []*schema.Column{globalSequenceColumns[0]},
	}

	tables = []*schema.Table{checkEventsTableDef, llmEventsTableDef, globalSequenceTableDef}
)

// migrate creates or upgrades every table. Columns are only ever added.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	return m.Create(ctx, tables...)
}
