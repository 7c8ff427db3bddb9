// Package catalog answers catalog queries: an optional case-insensitive title
// filter followed by an ordering on popularity.
package catalog

import (
	"net/url"
	"sort"
	"strings"

	"github.com/mrlokans/catalog/internal/entities"
)

// SortDirection orders books by popularity.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Query parameter names understood by QueryFromValues.
const (
	ParamSort   = "sort"
	ParamFilter = "q"
)

// ParseSortDirection maps a raw query value to a direction.
// Unknown or missing values fall back to ascending.
func ParseSortDirection(raw string) SortDirection {
	switch SortDirection(raw) {
	case SortDesc:
		return SortDesc
	default:
		return SortAsc
	}
}

// Query describes one catalog request. A nil Filter means no filtering;
// a non-nil empty Filter matches every title.
type Query struct {
	Filter *string
	Sort   SortDirection
}

// QueryFromValues builds a Query from URL query values. The filter is taken
// to be present whenever the q key appears, even with an empty value.
func QueryFromValues(values url.Values) Query {
	q := Query{Sort: ParseSortDirection(values.Get(ParamSort))}
	if raw, ok := values[ParamFilter]; ok {
		filter := ""
		if len(raw) > 0 {
			filter = raw[0]
		}
		q.Filter = &filter
	}
	return q
}

// ListBooks filters then sorts books. The input slice is not modified.
// Books with equal popularity keep their input order.
func ListBooks(books []entities.Book, q Query) []entities.Book {
	result := make([]entities.Book, 0, len(books))
	if q.Filter == nil {
		result = append(result, books...)
	} else {
		needle := strings.ToLower(*q.Filter)
		for _, b := range books {
			if strings.Contains(strings.ToLower(b.Title), needle) {
				result = append(result, b)
			}
		}
	}

	desc := ParseSortDirection(string(q.Sort)) == SortDesc
	sort.SliceStable(result, func(i, j int) bool {
		if desc {
			return result[i].Popularity > result[j].Popularity
		}
		return result[i].Popularity < result[j].Popularity
	})

	return result
}

// BookLister is the storage view needed to answer a query.
type BookLister interface {
	GetAllBooks() ([]entities.Book, error)
}

// Service reads the catalog from storage and applies queries to it.
type Service struct {
	books BookLister
}

func NewService(books BookLister) *Service {
	return &Service{books: books}
}

// ListBooks returns the books matching q.
func (s *Service) ListBooks(q Query) ([]entities.Book, error) {
	books, err := s.books.GetAllBooks()
	if err != nil {
		return nil, err
	}
	return ListBooks(books, q), nil
}
