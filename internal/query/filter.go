package query

import (
	"strconv"
	"strings"

	"libraryapi/internal/logger"
)

// AuthorCriteria is the optional filter/sort/pagination input for author searches.
// Nil tri-state fields and empty strings mean "no constraint".
type AuthorCriteria struct {
	Names        string
	LastNames    string
	HasPhoto     *bool
	HasBooks     *bool
	BookTitle    string
	IncludeBooks bool
	OrderField   string
	Ascending    bool
	Page         Page
}

type ClauseKind int

const (
	ClauseNamesContains ClauseKind = iota + 1
	ClauseLastNamesContains
	ClauseHasPhoto
	ClauseHasBooks
	ClauseBookTitleContains
)

func (k ClauseKind) String() string {
	switch k {
	case ClauseNamesContains:
		return "names_contains"
	case ClauseLastNamesContains:
		return "last_names_contains"
	case ClauseHasPhoto:
		return "has_photo"
	case ClauseHasBooks:
		return "has_books"
	case ClauseBookTitleContains:
		return "book_title_contains"
	default:
		return "unknown"
	}
}

// Clause is one conjunctive term of a Predicate. Text is set for substring
// clauses, Present for the presence/absence clauses.
type Clause struct {
	Kind    ClauseKind
	Text    string
	Present bool
}

// SortKey identifies a sortable author attribute.
type SortKey string

const (
	SortByNames          SortKey = "names"
	SortByLastNames      SortKey = "last_names"
	SortByIdentification SortKey = "identification"
	SortByID             SortKey = "id"
)

// sortFields maps accepted order-field names (lower-cased) to sort keys.
var sortFields = map[string]SortKey{
	"names":          SortByNames,
	"name":           SortByNames,
	"lastnames":      SortByLastNames,
	"last_names":     SortByLastNames,
	"identification": SortByIdentification,
	"id":             SortByID,
}

// DefaultOrder is used when no valid order field is supplied.
var DefaultOrder = Order{Key: SortByNames, Ascending: true}

type Order struct {
	Key       SortKey
	Ascending bool
}

// Plan is the storage-agnostic result of translating AuthorCriteria.
// Empty marks a predicate that can never match.
type Plan struct {
	Clauses      []Clause
	Order        Order
	Page         Page
	IncludeBooks bool
	Empty        bool
}

// Has reports whether the plan contains a clause of the given kind.
func (p Plan) Has(kind ClauseKind) bool {
	for _, c := range p.Clauses {
		if c.Kind == kind {
			return true
		}
	}
	return false
}

type FilterBuilder struct {
	logger logger.Logger
}

func NewFilterBuilder(log logger.Logger) *FilterBuilder {
	return &FilterBuilder{
		logger: log.With(logger.String("component", "filter_builder")),
	}
}

// BuildAuthorQuery translates criteria into a conjunctive predicate plus ordering.
// It never fails: unusable sort input degrades to DefaultOrder.
func (b *FilterBuilder) BuildAuthorQuery(c AuthorCriteria) Plan {
	plan := Plan{
		Clauses:      make([]Clause, 0, 5),
		Page:         c.Page,
		IncludeBooks: c.IncludeBooks,
	}

	if plan.Page.Size == 0 {
		plan.Page = Normalize(1, DefaultPageSize)
	}

	if s := strings.TrimSpace(c.Names); s != "" {
		plan.Clauses = append(plan.Clauses, Clause{Kind: ClauseNamesContains, Text: s})
	}
	if s := strings.TrimSpace(c.LastNames); s != "" {
		plan.Clauses = append(plan.Clauses, Clause{Kind: ClauseLastNamesContains, Text: s})
	}
	if c.HasPhoto != nil {
		plan.Clauses = append(plan.Clauses, Clause{Kind: ClauseHasPhoto, Present: *c.HasPhoto})
	}
	if c.HasBooks != nil {
		plan.Clauses = append(plan.Clauses, Clause{Kind: ClauseHasBooks, Present: *c.HasBooks})
	}
	if s := strings.TrimSpace(c.BookTitle); s != "" {
		plan.Clauses = append(plan.Clauses, Clause{Kind: ClauseBookTitleContains, Text: s})
	}

	// "no books" and "has a book titled ..." cannot both hold.
	if c.HasBooks != nil && !*c.HasBooks && plan.Has(ClauseBookTitleContains) {
		b.logger.Debug("contradictory author filter, plan matches nothing",
			logger.String("book_title", c.BookTitle))
		plan.Empty = true
	}

	plan.Order = b.resolveOrder(c.OrderField, c.Ascending)

	return plan
}

func (b *FilterBuilder) resolveOrder(field string, ascending bool) Order {
	field = strings.TrimSpace(field)
	if field == "" {
		return DefaultOrder
	}

	key, ok := sortFields[strings.ToLower(field)]
	if !ok {
		b.logger.Warn("unknown order field, using default order",
			logger.String("order_field", field),
			logger.String("default", string(DefaultOrder.Key)))
		return DefaultOrder
	}

	return Order{Key: key, Ascending: ascending}
}

// ParseAuthorCriteria reads criteria from query-string values. Keys are matched
// case-insensitively; unparsable booleans count as absent.
func ParseAuthorCriteria(params map[string]string) AuthorCriteria {
	lookup := make(map[string]string, len(params))
	for k, v := range params {
		lookup[strings.ToLower(k)] = v
	}

	c := AuthorCriteria{
		Names:      lookup["names"],
		LastNames:  lookup["lastnames"],
		HasPhoto:   parseTriState(lookup["ishasphoto"]),
		HasBooks:   parseTriState(lookup["ishasbooks"]),
		BookTitle:  lookup["booktitle"],
		OrderField: lookup["orderfield"],
		Ascending:  true,
		Page:       ParsePage(lookup["page"], lookup["recordsperpage"]),
	}

	if v, err := strconv.ParseBool(lookup["includebooks"]); err == nil {
		c.IncludeBooks = v
	}
	if v, err := strconv.ParseBool(lookup["isascendingorder"]); err == nil {
		c.Ascending = v
	}

	return c
}

func parseTriState(raw string) *bool {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}
