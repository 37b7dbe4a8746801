package postgres

import (
	"context"
	"io"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
	ierr "github.com/funnytourism/tourprice/internal/errors"
)

const (
	TableItems              = "items"
	TableAgents             = "agents"
	TableBookings           = "bookings"
	TableCommissionLedgers  = "commission_ledgers"
	TableCommissionPayments = "commission_payments"
)

var (
	idType     = map[string]string{dialect.Postgres: "varchar(50)"}
	moneyType  = map[string]string{dialect.Postgres: "numeric(12,2)"}
	rateType   = map[string]string{dialect.Postgres: "numeric(7,4)"}
	jsonbType  = map[string]string{dialect.Postgres: "jsonb"}
	textType   = map[string]string{dialect.Postgres: "text"}
	shortText  = map[string]string{dialect.Postgres: "varchar(50)"}
	statusType = map[string]string{dialect.Postgres: "varchar(20)"}
)

func baseColumns() []*schema.Column {
	return []*schema.Column{
		{Name: "status", Type: field.TypeString, SchemaType: statusType, Default: "published"},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
		{Name: "created_by", Type: field.TypeString, Nullable: true},
		{Name: "updated_by", Type: field.TypeString, Nullable: true},
	}
}

var (
	// ItemsColumns holds the columns for the "items" table.
	ItemsColumns = append([]*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true, SchemaType: idType},
		{Name: "code", Type: field.TypeString, Unique: true, SchemaType: shortText},
		{Name: "title", Type: field.TypeString},
		{Name: "category", Type: field.TypeString, SchemaType: shortText},
		{Name: "pricing", Type: field.TypeString, SchemaType: textType, Default: ""},
		{Name: "b2b_pricing", Type: field.TypeString, SchemaType: textType, Default: ""},
		{Name: "currency", Type: field.TypeString, SchemaType: map[string]string{dialect.Postgres: "varchar(10)"}, Default: "eur"},
		{Name: "is_active", Type: field.TypeBool, Default: true},
	}, baseColumns()...)
	// ItemsTable holds the schema information for the "items" table.
	ItemsTable = &schema.Table{
		Name:       TableItems,
		Columns:    ItemsColumns,
		PrimaryKey: []*schema.Column{ItemsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "idx_items_category_active", Columns: []*schema.Column{ItemsColumns[3], ItemsColumns[7]}},
		},
	}

	// AgentsColumns holds the columns for the "agents" table.
	AgentsColumns = append([]*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true, SchemaType: idType},
		{Name: "company_name", Type: field.TypeString},
		{Name: "email", Type: field.TypeString, Unique: true},
		{Name: "commission_rate", Type: field.TypeOther, SchemaType: rateType},
		{Name: "net_rate", Type: field.TypeBool, Default: false},
		{Name: "is_active", Type: field.TypeBool, Default: true},
	}, baseColumns()...)
	// AgentsTable holds the schema information for the "agents" table.
	AgentsTable = &schema.Table{
		Name:       TableAgents,
		Columns:    AgentsColumns,
		PrimaryKey: []*schema.Column{AgentsColumns[0]},
	}

	// BookingsColumns holds the columns for the "bookings" table.
	BookingsColumns = append([]*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true, SchemaType: idType},
		{Name: "reference_number", Type: field.TypeString, Unique: true, SchemaType: shortText},
		{Name: "item_id", Type: field.TypeString, SchemaType: idType},
		{Name: "booking_type", Type: field.TypeString, SchemaType: shortText},
		{Name: "item_category", Type: field.TypeString, SchemaType: shortText},
		{Name: "agent_id", Type: field.TypeString, Nullable: true, SchemaType: idType},
		{Name: "category", Type: field.TypeString, SchemaType: shortText},
		{Name: "party_size", Type: field.TypeInt},
		{Name: "rooms", Type: field.TypeJSON, SchemaType: jsonbType},
		{Name: "guest_name", Type: field.TypeString, Default: ""},
		{Name: "guest_email", Type: field.TypeString, Default: ""},
		{Name: "unit_amount", Type: field.TypeOther, SchemaType: moneyType},
		{Name: "total_price", Type: field.TypeOther, SchemaType: moneyType},
		{Name: "currency", Type: field.TypeString, SchemaType: map[string]string{dialect.Postgres: "varchar(10)"}},
		{Name: "approximate", Type: field.TypeBool, Default: false},
	}, baseColumns()...)
	// BookingsTable holds the schema information for the "bookings" table.
	BookingsTable = &schema.Table{
		Name:       TableBookings,
		Columns:    BookingsColumns,
		PrimaryKey: []*schema.Column{BookingsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "bookings_items_item",
				Columns:    []*schema.Column{BookingsColumns[2]},
				RefColumns: []*schema.Column{ItemsColumns[0]},
				OnDelete:   schema.NoAction,
			},
			{
				Symbol:     "bookings_agents_agent",
				Columns:    []*schema.Column{BookingsColumns[5]},
				RefColumns: []*schema.Column{AgentsColumns[0]},
				OnDelete:   schema.SetNull,
			},
		},
		Indexes: []*schema.Index{
			{Name: "idx_bookings_agent", Columns: []*schema.Column{BookingsColumns[5]}},
		},
	}

	// CommissionLedgersColumns holds the columns for the "commission_ledgers" table.
	CommissionLedgersColumns = append([]*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true, SchemaType: idType},
		{Name: "booking_id", Type: field.TypeString, Unique: true, SchemaType: idType},
		{Name: "booking_type", Type: field.TypeString, SchemaType: shortText},
		{Name: "agent_id", Type: field.TypeString, SchemaType: idType},
		{Name: "kind", Type: field.TypeString, SchemaType: shortText},
		{Name: "currency", Type: field.TypeString, SchemaType: map[string]string{dialect.Postgres: "varchar(10)"}},
		{Name: "gross_price", Type: field.TypeOther, SchemaType: moneyType},
		{Name: "commission_rate", Type: field.TypeOther, SchemaType: rateType},
		{Name: "commission_amount", Type: field.TypeOther, SchemaType: moneyType},
		{Name: "amount_due", Type: field.TypeOther, SchemaType: moneyType},
		{Name: "paid_amount", Type: field.TypeOther, SchemaType: moneyType},
		{Name: "remaining_amount", Type: field.TypeOther, SchemaType: moneyType},
		{Name: "is_fully_paid", Type: field.TypeBool, Default: false},
		{Name: "fully_paid_at", Type: field.TypeTime, Nullable: true},
		{Name: "version", Type: field.TypeInt, Default: 1},
	}, baseColumns()...)
	// CommissionLedgersTable holds the schema information for the "commission_ledgers" table.
	CommissionLedgersTable = &schema.Table{
		Name:       TableCommissionLedgers,
		Columns:    CommissionLedgersColumns,
		PrimaryKey: []*schema.Column{CommissionLedgersColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "commission_ledgers_bookings_booking",
				Columns:    []*schema.Column{CommissionLedgersColumns[1]},
				RefColumns: []*schema.Column{BookingsColumns[0]},
				OnDelete:   schema.NoAction,
			},
		},
		Indexes: []*schema.Index{
			{Name: "idx_commission_ledgers_agent_paid", Columns: []*schema.Column{CommissionLedgersColumns[3], CommissionLedgersColumns[12]}},
		},
	}

	// CommissionPaymentsColumns holds the columns for the "commission_payments" table.
	CommissionPaymentsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true, SchemaType: idType},
		{Name: "ledger_id", Type: field.TypeString, SchemaType: idType},
		{Name: "amount", Type: field.TypeOther, SchemaType: moneyType},
		{Name: "currency", Type: field.TypeString, SchemaType: map[string]string{dialect.Postgres: "varchar(10)"}},
		{Name: "payment_method", Type: field.TypeString, SchemaType: shortText},
		{Name: "transaction_ref", Type: field.TypeString, Default: ""},
		{Name: "notes", Type: field.TypeString, SchemaType: textType, Default: ""},
		{Name: "recorded_by", Type: field.TypeString, Default: ""},
		{Name: "recorded_at", Type: field.TypeTime},
	}
	// CommissionPaymentsTable holds the schema information for the "commission_payments" table.
	CommissionPaymentsTable = &schema.Table{
		Name:       TableCommissionPayments,
		Columns:    CommissionPaymentsColumns,
		PrimaryKey: []*schema.Column{CommissionPaymentsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "commission_payments_commission_ledgers_ledger",
				Columns:    []*schema.Column{CommissionPaymentsColumns[1]},
				RefColumns: []*schema.Column{CommissionLedgersColumns[0]},
				OnDelete:   schema.NoAction,
			},
		},
		Indexes: []*schema.Index{
			{Name: "idx_commission_payments_ledger", Columns: []*schema.Column{CommissionPaymentsColumns[1], CommissionPaymentsColumns[8]}},
		},
	}

	// Tables holds all the tables in the schema, in creation order.
	Tables = []*schema.Table{
		ItemsTable,
		AgentsTable,
		BookingsTable,
		CommissionLedgersTable,
		CommissionPaymentsTable,
	}
)

func init() {
	BookingsTable.ForeignKeys[0].RefTable = ItemsTable
	BookingsTable.ForeignKeys[1].RefTable = AgentsTable
	CommissionLedgersTable.ForeignKeys[0].RefTable = BookingsTable
	CommissionPaymentsTable.ForeignKeys[0].RefTable = CommissionLedgersTable
}

// Migrate creates or updates all tables. When out is non-nil the statements
// are written there instead of being executed.
func (db *DB) Migrate(ctx context.Context, out io.Writer) error {
	var drv dialect.Driver = entsql.OpenDB(dialect.Postgres, db.DB.DB)
	if out != nil {
		drv = &schema.WriteDriver{Writer: out, Driver: drv}
	}

	migrate, err := schema.NewMigrate(drv, schema.WithForeignKeys(true))
	if err != nil {
		return ierr.WithError(err).
			WithMessage("failed to create schema migrator").
			Mark(ierr.ErrDatabase)
	}
	if err := migrate.Create(ctx, Tables...); err != nil {
		return ierr.WithError(err).
			WithMessage("failed to create schema resources").
			Mark(ierr.ErrDatabase)
	}
	return nil
}
