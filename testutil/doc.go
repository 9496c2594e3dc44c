// Package testutil provides testing utilities for dci.
//
// This package is intended for use in tests and benchmarks only.
// It generates deterministic random tables and compares tables cell by cell.
//
// # Random Tables
//
//	rng := testutil.NewRNG(seed)
//	tbl, err := rng.Table(testutil.TableSpec{
//	    Name:    "t",
//	    Records: 100,
//	    Types:   testutil.AllTypes,
//	})
//
// # Comparison
//
//	testutil.AssertTablesEqual(t, want, got)
package testutil
