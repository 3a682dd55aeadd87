package library

import (
	"context"

	"github.com/roamly/roamly/internal/gazetteer"
	"github.com/roamly/roamly/internal/merge"
	"github.com/roamly/roamly/pkg/types"
)

// Coordinate is an optional edit of a latitude or longitude. Set with a
// nil Value clears the field.
type Coordinate struct {
	Set   bool
	Value *float64
}

// MetaEdit is a user edit of one map. Nil fields are left unchanged.
type MetaEdit struct {
	Title          *string
	Description    *string
	Tags           *[]string
	CollectionUnit *string
	YearLabel      *string

	ScopeLevel  *string
	CountryCode *string
	CountryName *string
	Province    *string
	City        *string
	District    *string
	Latitude    Coordinate
	Longitude   Coordinate

	// AutoResolveCity looks the city up in the gazetteer to fill location
	// fields that neither the edit nor the map provide. Nil means true.
	AutoResolveCity *bool
}

func orValue(edit *string, current, resolved string) string {
	if edit != nil {
		return *edit
	}
	if current != "" {
		return current
	}
	return resolved
}

// Apply returns m with the edit applied.
func (e MetaEdit) Apply(m types.MapRecord) types.MapRecord {
	var resolved *types.Location
	if e.AutoResolveCity == nil || *e.AutoResolveCity {
		city := m.City
		if e.City != nil {
			city = *e.City
		}
		if loc, ok := gazetteer.ResolveCity(city); ok {
			resolved = &loc
		}
	}
	var r types.Location
	cur := m.Location
	if resolved != nil {
		r = *resolved
		// A resolved city replaces the bare global fallback.
		if merge.IsGlobalFallback(cur) {
			cur = types.Location{}
		}
	}

	m.Title = orValue(e.Title, m.Title, "")
	m.Description = orValue(e.Description, m.Description, "")
	if e.Tags != nil {
		m.Tags = append([]string{}, (*e.Tags)...)
	}
	m.CollectionUnit = orValue(e.CollectionUnit, m.CollectionUnit, "")
	m.YearLabel = orValue(e.YearLabel, m.YearLabel, "")

	m.ScopeLevel = orValue(e.ScopeLevel, cur.ScopeLevel, r.ScopeLevel)
	m.CountryCode = orValue(e.CountryCode, cur.CountryCode, r.CountryCode)
	m.CountryName = orValue(e.CountryName, cur.CountryName, r.CountryName)
	m.Province = orValue(e.Province, cur.Province, r.Province)
	m.City = orValue(e.City, cur.City, r.City)
	m.District = orValue(e.District, cur.District, r.District)

	switch {
	case e.Latitude.Set:
		m.Latitude = e.Latitude.Value
	case resolved != nil:
		m.Latitude = r.Latitude
	}
	switch {
	case e.Longitude.Set:
		m.Longitude = e.Longitude.Value
	case resolved != nil:
		m.Longitude = r.Longitude
	}
	return m
}

// Get returns one map.
func (s *Service) Get(ctx context.Context, id string) (types.MapRecord, error) {
	return s.catalog.Get(ctx, id)
}

// UpdateMeta applies a user edit and mirrors the map to the sidecar.
func (s *Service) UpdateMeta(ctx context.Context, id string, edit MetaEdit) (types.MapRecord, error) {
	m, err := s.catalog.Get(ctx, id)
	if err != nil {
		return types.MapRecord{}, err
	}
	if err := s.catalog.UpdateMeta(ctx, edit.Apply(m)); err != nil {
		return types.MapRecord{}, err
	}
	updated, err := s.catalog.Get(ctx, id)
	if err != nil {
		return types.MapRecord{}, err
	}
	return updated, s.mirror(ctx, updated, types.FullPatch(updated))
}

// SetFavorite sets the favorite flag, or flips it when favorite is nil.
func (s *Service) SetFavorite(ctx context.Context, id string, favorite *bool) (types.MapRecord, error) {
	m, err := s.catalog.Get(ctx, id)
	if err != nil {
		return types.MapRecord{}, err
	}
	next := !m.Favorite
	if favorite != nil {
		next = *favorite
	}
	if err := s.catalog.SetFavorite(ctx, id, next); err != nil {
		return types.MapRecord{}, err
	}
	updated, err := s.catalog.Get(ctx, id)
	if err != nil {
		return types.MapRecord{}, err
	}
	return updated, s.mirror(ctx, updated, types.MetaPatch{Favorite: &updated.Favorite})
}
