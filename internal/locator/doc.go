// Package locator finds the sided scores table inside submitted data whose
// nesting is not under our control.
//
// The submitting form may wrap the table under any number of rebuild
// artifacts, so the search is structural: a depth-first walk that accepts the
// first node shaped like a table with front and/or back sides holding
// statistic channels. When the processed values hold no table, the raw
// request body is searched the same way.
package locator
