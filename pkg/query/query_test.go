package query_test

import (
	"slices"
	"testing"
	"time"

	"github.com/JaimeStill/callvault/pkg/query"
)

const selectAll = "SELECT r.file_name, r.name, r.date_added FROM public.recordings r"

func testProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "recordings", "r").
		Project("file_name", "FileName").
		Project("name", "Name").
		Project("date_added", "DateAdded")
}

func ptr[T any](v T) *T { return &v }

func TestProjectionMap(t *testing.T) {
	p := testProjection()

	if got := p.Table(); got != "public.recordings r" {
		t.Errorf("Table() = %q", got)
	}
	if got := p.Alias(); got != "r" {
		t.Errorf("Alias() = %q", got)
	}
	if got := p.Columns(); got != "r.file_name, r.name, r.date_added" {
		t.Errorf("Columns() = %q", got)
	}

	tests := []struct {
		view string
		want string
	}{
		{"FileName", "r.file_name"},
		{"DateAdded", "r.date_added"},
		{"unknown", "unknown"},
	}
	for _, tt := range tests {
		if got := p.Column(tt.view); got != tt.want {
			t.Errorf("Column(%q) = %q, want %q", tt.view, got, tt.want)
		}
	}
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []query.SortField
	}{
		{"empty string", "", nil},
		{"single ascending", "Name", []query.SortField{{Field: "Name"}}},
		{"single descending", "-DateAdded", []query.SortField{{Field: "DateAdded", Descending: true}}},
		{"mixed with spaces", " Name , -DateAdded ", []query.SortField{{Field: "Name"}, {Field: "DateAdded", Descending: true}}},
		{"empty parts skipped", "Name,,FileName", []query.SortField{{Field: "Name"}, {Field: "FileName"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := query.ParseSortFields(tt.input)
			if !slices.Equal(got, tt.want) {
				t.Errorf("ParseSortFields(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBuilder(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)

	tests := []struct {
		name     string
		build    func(*query.Builder) (string, []any)
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "no conditions",
			build:   (*query.Builder).Build,
			wantSQL: selectAll,
		},
		{
			name:    "count",
			build:   (*query.Builder).BuildCount,
			wantSQL: "SELECT COUNT(*) FROM public.recordings r",
		},
		{
			name: "equals",
			build: func(b *query.Builder) (string, []any) {
				return b.WhereEquals("Name", "jdoe").Build()
			},
			wantSQL:  selectAll + " WHERE r.name = $1",
			wantArgs: []any{"jdoe"},
		},
		{
			name: "nil equals skipped",
			build: func(b *query.Builder) (string, []any) {
				var s *string
				return b.WhereEquals("Name", s).Build()
			},
			wantSQL: selectAll,
		},
		{
			name: "contains escapes wildcards",
			build: func(b *query.Builder) (string, []any) {
				return b.WhereContains("FileName", ptr(" 50%_off ")).Build()
			},
			wantSQL:  selectAll + " WHERE r.file_name ILIKE $1",
			wantArgs: []any{`%50\%\_off%`},
		},
		{
			name: "blank contains skipped",
			build: func(b *query.Builder) (string, []any) {
				return b.WhereContains("FileName", ptr("  ")).Build()
			},
			wantSQL: selectAll,
		},
		{
			name: "any contains",
			build: func(b *query.Builder) (string, []any) {
				return b.WhereAnyContains("Name", []string{"jdoe", "", "asmith"}).Build()
			},
			wantSQL:  selectAll + " WHERE (r.name ILIKE $1 OR r.name ILIKE $2)",
			wantArgs: []any{"%jdoe%", "%asmith%"},
		},
		{
			name: "any contains all blank skipped",
			build: func(b *query.Builder) (string, []any) {
				return b.WhereAnyContains("Name", []string{" ", ""}).Build()
			},
			wantSQL: selectAll,
		},
		{
			name: "between",
			build: func(b *query.Builder) (string, []any) {
				return b.WhereBetween("DateAdded", &from, &to).Build()
			},
			wantSQL:  selectAll + " WHERE r.date_added BETWEEN $1 AND $2",
			wantArgs: []any{&from, &to},
		},
		{
			name: "between open end",
			build: func(b *query.Builder) (string, []any) {
				var none *time.Time
				return b.WhereBetween("DateAdded", &from, none).Build()
			},
			wantSQL:  selectAll + " WHERE r.date_added >= $1",
			wantArgs: []any{&from},
		},
		{
			name: "between open start",
			build: func(b *query.Builder) (string, []any) {
				return b.WhereBetween("DateAdded", nil, &to).Build()
			},
			wantSQL:  selectAll + " WHERE r.date_added <= $1",
			wantArgs: []any{&to},
		},
		{
			name: "search",
			build: func(b *query.Builder) (string, []any) {
				return b.WhereSearch(ptr("doe"), "FileName", "Name").Build()
			},
			wantSQL:  selectAll + " WHERE (r.file_name ILIKE $1 OR r.name ILIKE $2)",
			wantArgs: []any{"%doe%", "%doe%"},
		},
		{
			name: "parameters number across conditions",
			build: func(b *query.Builder) (string, []any) {
				return b.
					WhereBetween("DateAdded", &from, &to).
					WhereAnyContains("Name", []string{"jdoe", "asmith"}).
					WhereEquals("FileName", "x.wav").
					BuildCount()
			},
			wantSQL:  "SELECT COUNT(*) FROM public.recordings r WHERE r.date_added BETWEEN $1 AND $2 AND (r.name ILIKE $3 OR r.name ILIKE $4) AND r.file_name = $5",
			wantArgs: []any{&from, &to, "%jdoe%", "%asmith%", "x.wav"},
		},
		{
			name: "first",
			build: func(b *query.Builder) (string, []any) {
				return b.WhereEquals("FileName", "x.wav").BuildFirst()
			},
			wantSQL:  selectAll + " WHERE r.file_name = $1 LIMIT 1",
			wantArgs: []any{"x.wav"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := tt.build(query.NewBuilder(testProjection()))
			if sql != tt.wantSQL {
				t.Errorf("sql = %q\nwant  %q", sql, tt.wantSQL)
			}
			if !slices.Equal(args, tt.wantArgs) {
				t.Errorf("args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestBuilderOrdering(t *testing.T) {
	defaultSort := query.SortField{Field: "DateAdded", Descending: true}

	t.Run("default sort", func(t *testing.T) {
		sql, _ := query.NewBuilder(testProjection(), defaultSort).Build()
		if want := selectAll + " ORDER BY r.date_added DESC"; sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
	})

	t.Run("explicit sort overrides default", func(t *testing.T) {
		sql, _ := query.NewBuilder(testProjection(), defaultSort).
			OrderByFields([]query.SortField{{Field: "Name"}, {Field: "FileName", Descending: true}}).
			Build()
		if want := selectAll + " ORDER BY r.name ASC, r.file_name DESC"; sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
	})

	t.Run("unmapped sort fields dropped", func(t *testing.T) {
		sql, _ := query.NewBuilder(testProjection(), defaultSort).
			OrderByFields([]query.SortField{{Field: "Name; DROP TABLE recordings"}, {Field: "Name"}}).
			Build()
		if want := selectAll + " ORDER BY r.name ASC"; sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}

		sql, _ = query.NewBuilder(testProjection(), defaultSort).
			OrderByFields([]query.SortField{{Field: "Unknown"}}).
			Build()
		if want := selectAll + " ORDER BY r.date_added DESC"; sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
	})

	t.Run("page", func(t *testing.T) {
		sql, args := query.NewBuilder(testProjection(), defaultSort).
			WhereContains("Name", ptr("doe")).
			BuildPage(50, 25)
		want := selectAll + " WHERE r.name ILIKE $1 ORDER BY r.date_added DESC LIMIT 25 OFFSET 50"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
		if len(args) != 1 {
			t.Errorf("args = %v", args)
		}
	})
}
