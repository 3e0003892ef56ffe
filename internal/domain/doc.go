// Package domain implements the silver-to-gold feature engineering for
// department-level barley yield prediction.
//
// # Data Source
//
// Daily climate series come from CMIP6 downscaled projections aggregated per
// French department: one row per (department, date, scenario) carrying the
// daily mean near-surface temperature, the daily maximum temperature (both
// Kelvin), and precipitation in millimeters. Yield observations come from
// the national agricultural statistics, one row per department and year,
// historical period only.
//
// # Scenarios
//
// Every daily value is defined under a named projection pathway:
//
//	historical  observed-period series (the only pathway with yields)
//	ssp1_2_6    low-emission trajectory
//	ssp2_4_5    intermediate trajectory
//	ssp5_8_5    high-emission trajectory
//
// Features are computed per scenario in isolation; scenarios never mix.
//
// # Seasons and the winter window
//
// The crop year splits into a growing season (March-July inclusive) and its
// complement. Independently, a winter window (September-February) feeds the
// winter precipitation lag: precipitation from September-December is labeled
// with the following calendar year, January-February with their own year, so
// one winter's total lines up with the growing season it precedes. December
// 2005 and January 2006 both label 2006.
//
// # Thresholds
//
// All event thresholds are strict comparisons and live in [Params], never
// inline in the logic:
//
//	dry day      precip   < 0.1 mm
//	dry period   >= 7 consecutive dry days
//	freeze day   max temp < 273.15 K (0 C)
//	heat day     max temp > 303.15 K (30 C)
//	heavy rain   precip   > 20 mm
//
// A day sitting exactly on a threshold does not count.
//
// # Null semantics
//
// Nullable feature columns use *float64. A season with no recorded days
// yields nil statistics rather than zeros: "no rain" and "no data" are
// different facts and the model inputs must keep them apart. The same holds
// for a missing preceding winter. Dry-spell and extreme counts over observed
// days default to zero, which is a real measurement.
//
// # Ordering
//
// Dry-spell detection is the one order-sensitive computation: runs are
// defined over consecutive recorded days. [DrySpells] sorts each group by
// date before scanning instead of trusting upstream ordering. Gaps in the
// series are not detected; a run neither breaks nor bridges across a missing
// date, it simply never sees it.
package domain
