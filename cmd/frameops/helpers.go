package main

import (
	"fmt"
	"strconv"

	"frameops/internal/session"
)

func parseID(value, what string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", what, value)
	}
	return id, nil
}

func parseIDs(values []string, what string) ([]int64, error) {
	ids := make([]int64, 0, len(values))
	for _, value := range values {
		id, err := parseID(value, what)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// applyListing stores pagination and filter updates before a screen reload.
func applyListing(store *session.Store, pageKey, filterKey session.Key, page int, filter string, filterSet bool) error {
	if page > 0 {
		if err := store.Set(pageKey, page); err != nil {
			return err
		}
	}
	if filterSet {
		if err := store.Set(filterKey, filter); err != nil {
			return err
		}
	}
	return nil
}
