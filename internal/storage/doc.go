// Package storage provides JSON-based persistence between runs.
//
// The Golf Canada course cache is kept in course_cache.json so repeated runs
// against the same facility skip the course list request. Every assembled
// payload is archived as payloads/<run id>.json. The default storage location
// is ~/.local/share/scorecard-sync/.
package storage
