// Package domain models agronomic trial parameters and the climate-stress
// report derived from them.
//
// # Input
//
// Each input line describes one trial, tab-separated:
//
//	culture_id	flowering_date	soil_volume	field_capacity
//	e.g. "48132	2011-06-14	7.2	0.31"
//
// The flowering date is the reference point for every "before"/"after"
// window. It is passed to the climate service verbatim.
//
// # Climate data
//
// The climate service returns temperature stress days (cold and heat),
// light sums and drought stress days (DSDs), each split into before and after
// flowering. For non-irrigated trials there is one DSD pair. Irrigated trials
// were grown on a control plot and a stress plot, so the service returns one
// DSD pair per plot.
//
// # Report
//
// The report always has 13 columns (see ReportHeader). Columns that do not
// apply to a trial are written as "NA":
//
//	non-irrigated:  drought-*          filled, control-* and stress-* NA
//	irrigated:      control-*/stress-* filled, drought-* NA
//
// Culture IDs 47109 and 56879 are flagged as irrigated in the trial database
// but only carry plain DSDs, so they are always reported like non-irrigated
// trials.
package domain
