// Package http implements the REST handlers. Handlers parse requests,
// call the service layer through small interfaces and render JSON; every
// failure goes through apierrors.ErrorHandler as an RFC 7807 problem.
//
// # Routes
//
//	POST /api/upload/excel       multipart file, sheet, range
//	POST /api/upload/excel/raw   multipart file, sheet, range
//	POST /api/upload/csv         multipart file, optional delimiter
//	POST /api/upload/sheets      multipart file
//	POST /api/chart/save         {"name": ..., "configJson": ...}
//	GET  /api/chart/all
//	GET  /api/chart/{id}
//	POST /api/chart/convert      [ {row}, ... ]
//	GET  /api/schools            type, city, name, pupilsMax, grade5Max, rankMin, rankMax
//	GET  /api/health, /api/health/ready, /api/health/live, /api/version
//
// Input problems answer 400 with the message in "detail"; extraction
// failures answer 400 with "Failed to parse ...: <cause>".
package http
