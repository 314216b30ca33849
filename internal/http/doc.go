// Package http exposes the calendar services over a chi router.
//
// Every route except /healthz and /metrics requires HTTP basic
// authentication; the authenticated user owns the events it touches.
//
//   - GET /events, POST /events: list (filters: category, status, property,
//     from, to) and create events. The create body is a calendar.Draft.
//   - GET /events/{id}, PUT /events/{id}, DELETE /events/{id}: fetch, patch
//     (body is a calendar.Patch) and delete one event.
//   - POST /events/{id}/complete: mark an instance complete. The response
//     carries the completed instance and, for recurring events, the next one.
//   - POST /events/{id}/next: create the following instance as a new event.
//   - GET /events/{id}/notifications, GET /events/{id}/occurrences?count=N.
//   - GET /views/list, GET /views/month?month=YYYY-MM: bucketed list and
//     month grid. Both accept the list filters.
//   - GET /notifications?date=YYYY-MM-DD: notifications firing on a day.
//   - GET /suggestions, POST /suggestions/{key}/accept (optional
//     suggest.Edit body), POST /suggestions/{key}/dismiss.
//   - POST /signals: import lease, warranty, policy and document records.
//   - GET /templates, POST /templates/{key}/apply (optional start_date).
//   - GET /categories: the category taxonomy with labels and colors.
//   - GET /calendar.ics: iCalendar feed of every event.
//
// Validation failures answer 422 with per-field messages, unknown ids 404,
// repeated suggestion acceptance 409 and missing credentials 401.
package http
