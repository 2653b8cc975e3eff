package convert

import (
	"context"
	"slices"
)

// ListCriteria returns the distinct criterion names of every requirement sheet
// of the workbooks in paths, in first-seen order.
func ListCriteria(ctx context.Context, paths []string) ([]string, error) {
	src, err := OpenSource(ctx, paths)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return src.Criteria()
}

// ListSheets returns the names of the requirement sheets of the workbooks in
// paths, in order. Names repeat when several workbooks share them.
func ListSheets(ctx context.Context, paths []string) ([]string, error) {
	src, err := OpenSource(ctx, paths)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return src.SheetNames(), nil
}

// Criteria is ListCriteria over an opened source.
func (s *Source) Criteria() ([]string, error) {
	var names []string
	for _, b := range s.Books {
		for _, sh := range b.Sheets() {
			m, err := ReadCriteria(sh)
			if err != nil {
				return nil, err
			}
			for _, name := range m.Names() {
				if !slices.Contains(names, name) {
					names = append(names, name)
				}
			}
		}
	}
	return names, nil
}

// SheetNames is ListSheets over an opened source.
func (s *Source) SheetNames() []string {
	var names []string
	for _, b := range s.Books {
		for _, sh := range b.Sheets() {
			names = append(names, sh.Name)
		}
	}
	return names
}
