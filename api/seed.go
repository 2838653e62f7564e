/*
seed.go - Development seed data

PURPOSE:
  Loads a small starter dataset for local development: the task catalog
  and a couple of workers with documents. Enabled by the -seed flag on
  the server; never runs in production deployments.
*/
package api

import (
	"context"

	"github.com/shiftguard/compliance-engine/engine"
)

// SeedTaskCodes is the default task catalog for development.
var SeedTaskCodes = []engine.TaskCode{
	{Code: "CASHIER", Name: "Cashier", MinAgeAllowed: 14, SoloCashHandling: true, SupervisorRequired: engine.SupervisorForMinors},
	{Code: "BAGGER", Name: "Bagger", MinAgeAllowed: 12, SupervisorRequired: engine.SupervisorForMinors},
	{Code: "STOCKER", Name: "Shelf stocker", MinAgeAllowed: 14, SupervisorRequired: engine.SupervisorNone},
	{Code: "DELI-SLICER", Name: "Deli slicer operator", MinAgeAllowed: 16, IsHazardous: true, PowerMachinery: true, SupervisorRequired: engine.SupervisorAlways},
	{Code: "BALER", Name: "Cardboard baler operator", MinAgeAllowed: 18, IsHazardous: true, PowerMachinery: true, SupervisorRequired: engine.SupervisorAlways},
	{Code: "DELIVERY", Name: "Delivery driver", MinAgeAllowed: 18, DrivingRequired: true, SupervisorRequired: engine.SupervisorNone},
	{Code: "GREETER", Name: "Greeter", MinAgeAllowed: 12, SupervisorRequired: engine.SupervisorNone},
}

// Seed loads the default task catalog and two demo workers.
func Seed(ctx context.Context, store Backend) error {
	for _, tc := range SeedTaskCodes {
		if err := store.PutTaskCode(ctx, tc); err != nil {
			return err
		}
	}

	workers := []engine.Worker{
		{ID: "w-ada", Name: "Ada Moreno", DateOfBirth: engine.MustParseDate("2011-03-22")},
		{ID: "w-ben", Name: "Ben Okafor", DateOfBirth: engine.MustParseDate("1998-11-02")},
	}
	for _, w := range workers {
		if _, err := store.GetWorker(ctx, w.ID); err == nil {
			continue // already seeded
		}
		if err := store.CreateWorker(ctx, w); err != nil {
			return err
		}
	}

	consent := engine.Document{
		ID:         "doc-ada-consent",
		WorkerID:   "w-ada",
		Type:       engine.DocConsent,
		UploadedAt: engine.MustParseDate("2025-08-01"),
	}
	if docs, err := store.ListDocuments(ctx, "w-ada"); err == nil && len(docs) == 0 {
		if err := store.AddDocument(ctx, consent); err != nil {
			return err
		}
	}
	return nil
}
