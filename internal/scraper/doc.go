// Package scraper fetches and parses Grint review-score pages.
//
// A review-score page carries a round's per-hole score, putts, penalty and
// tee-accuracy inputs. The parser reads them into a Round, translating Grint's
// codes (fairway numbers, penalty letters where "s" marks a sand shot) into the
// canonical channels. Parsing never fails: unreadable markup yields an empty
// Round. Transport errors are returned.
package scraper
