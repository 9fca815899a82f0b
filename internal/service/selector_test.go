package service

import (
	"testing"

	"github.com/shaunakgokhale/trainy/internal/interfaces"
	"github.com/shaunakgokhale/trainy/internal/model"
)

func TestSelectBothEndpointProviders(t *testing.T) {
	dir := &fakeDirectory{adapters: []interfaces.ProviderAdapter{
		&fakeAdapter{id: model.ProviderNS, country: "NL"},
		&fakeAdapter{id: model.ProviderSBB, country: "CH", nameQueries: true},
	}}
	sel := NewSelector(dir, testLogger())

	got := sel.Select(amsterdam(), zuerich())
	if len(got) != 2 {
		t.Fatalf("selected %d providers, want 2", len(got))
	}
	if got[0].ID() != model.ProviderNS || got[1].ID() != model.ProviderSBB {
		t.Errorf("selected %s, %s; want ns, sbb", got[0].ID(), got[1].ID())
	}
}

func TestSelectDeduplicatesSameCountry(t *testing.T) {
	dir := &fakeDirectory{adapters: []interfaces.ProviderAdapter{
		&fakeAdapter{id: model.ProviderNS, country: "NL"},
	}}
	sel := NewSelector(dir, testLogger())

	rotterdam := &model.Station{
		ID: "rotterdam-centraal", DisplayName: "Rotterdam Centraal", Country: "NL",
		ProviderIDs: map[model.ProviderID]string{model.ProviderNS: "RTD"},
	}
	got := sel.Select(amsterdam(), rotterdam)
	if len(got) != 1 {
		t.Fatalf("domestic pair selected %d providers, want 1", len(got))
	}
}

func TestSelectSkipsProviderMissingStationMapping(t *testing.T) {
	dir := &fakeDirectory{adapters: []interfaces.ProviderAdapter{
		&fakeAdapter{id: model.ProviderNS, country: "NL"},
		&fakeAdapter{id: model.ProviderSBB, country: "CH", nameQueries: true},
	}}
	sel := NewSelector(dir, testLogger())

	dest := zuerich()
	delete(dest.ProviderIDs, model.ProviderNS)

	got := sel.Select(amsterdam(), dest)
	if len(got) != 1 || got[0].ID() != model.ProviderSBB {
		t.Fatalf("want only sbb when ns lacks a destination id, got %d providers", len(got))
	}
}

func TestSelectNoProviderForCountry(t *testing.T) {
	dir := &fakeDirectory{adapters: []interfaces.ProviderAdapter{
		&fakeAdapter{id: model.ProviderNS, country: "NL"},
	}}
	sel := NewSelector(dir, testLogger())

	got := sel.Select(amsterdam(), zuerich())
	if len(got) != 1 || got[0].ID() != model.ProviderNS {
		t.Fatalf("unknown destination country must not fail selection, got %d providers", len(got))
	}
}
