// Package notifier hands assembled score posts to whatever posts them.
//
// The webhook notifier sends each submission as JSON to a configured URL,
// typically the service holding the Golf Canada session. The dry-run notifier
// prints the submission instead.
package notifier
