// Package domain models the WHO COVID-19 daily country report data and the
// pure operations the dashboard performs on it.
//
// # Data Source
//
// The WHO publishes a global daily table at
// https://covid19.who.int/data (WHO-COVID-19-global-data.csv). Each row is
// one country on one report date:
//
//	Date_reported,Country_code,Country,WHO_region,New_cases,Cumulative_cases,New_deaths,Cumulative_deaths
//	2020-01-03,AF,Afghanistan,EMRO,0,0,0,0
//
// The file is loaded once and never mutated; see [Dataset].
//
// # Country Codes
//
// Country_code is ISO 3166-1 alpha-2. The world map is keyed by alpha-3, so
// every row is resolved through the static registry in
// github.com/biter777/countries by [ResolveISO3]. WHO uses a handful of
// non-ISO codes (e.g. "XA".."XC" for the Caribbean Netherlands islands) and
// the "Other" row has no code at all; these resolve to [UnknownISO3].
// Unresolved rows are left off the map but still count in every total.
//
// Namibia's code is the literal string "NA". It must be read as text and
// never treated as a missing value.
//
// # Regions
//
// WHO_region is one of the six WHO regional offices:
//
//	AFRO   Africa
//	AMRO   Americas
//	EMRO   Eastern Mediterranean
//	EURO   Europe
//	SEARO  South-East Asia
//	WPRO   Western Pacific
//
// Rows for international conveyances carry "OTHER". They are included in
// global sums and listed under their raw tag.
//
// # Totals
//
// Global confirmed cases and deaths are the sums of New_cases and New_deaths
// over all rows. Cumulative_* columns are only ever summed within a single
// report date (map frames, cumulative per-day charts); summed across dates
// they count every case once per day since it was reported.
package domain
