package sqlerr

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strings"

	"github.com/deppfellow/peopledb/internal/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Classify wraps a raw store error into the domain taxonomy.
//
// Output:
//   - nil stays nil; errors already classified are returned unchanged
//   - unreachable store (dial failures, closed pools, unopenable files): *errs.ConnectionError
//   - everything else: *errs.QueryError whose Cause is a normalized *Error when the driver
//     reported one
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}

	if errs.IsStoreError(err) {
		return err
	}

	if isConnectionFailure(err) {
		return &errs.ConnectionError{Op: op, Cause: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &errs.QueryError{Op: op, Cause: ConvertPgError(pgErr)}
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return &errs.QueryError{Op: op, Cause: ConvertSQLiteError(liteErr)}
	}

	return &errs.QueryError{Op: op, Cause: err}
}

func isConnectionFailure(err error) bool {
	var pgConnectErr *pgconn.ConnectError
	if errors.As(err, &pgConnectErr) {
		return true
	}

	var netErr *net.OpError
	if errors.As(err, &netErr) {
		return true
	}

	if errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	// database/sql and pgxpool report use-after-Close with plain error strings.
	msg := err.Error()
	if strings.Contains(msg, "sql: database is closed") || strings.Contains(msg, "closed pool") {
		return true
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() & 0xff {
		case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_NOTADB:
			return true
		}
	}

	return false
}

// generateErrorCode creates consistent application error codes from DB errors.
//
// Output format:
//
//	<DOMAIN>_<ACTION>
//
// Example:
//
//	people + UniqueViolation => PERSON_ALREADY_EXISTS
func generateErrorCode(tableName string, errType Code) string {
	domain := "RECORD"
	if tableName != "" {
		domain = strings.ToUpper(singular(tableName))
	}

	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation:
		action = "INVALID"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

// singular handles the one irregular table name this service owns, turns
// "ies" into "y" and otherwise trims a trailing "s".
func singular(table string) string {
	lower := strings.ToLower(table)
	if lower == "people" {
		return "person"
	}
	if strings.HasSuffix(lower, "ies") && len(lower) > 3 {
		return lower[:len(lower)-3] + "y"
	}
	if strings.HasSuffix(lower, "s") && len(lower) > 1 {
		return lower[:len(lower)-1]
	}
	return lower
}

// formatUserFriendlyMessage produces an end-user-facing error message.
func formatUserFriendlyMessage(sqlErr *Error) string {
	entityName := getEntityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("The referenced %s does not exist", entityName)

	case UniqueViolation:
		// "identifier" is replaced below when the column can be inferred.
		return fmt.Sprintf("A %s with this identifier already exists", entityName)

	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)

	case CheckViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"

	default:
		return "An error occurred while processing your request"
	}
}

// getEntityName tries to infer an entity name from table/column data.
//
// Priority rules:
//  1. Column ending with "_id" names the entity ("city_id" -> "City").
//  2. Otherwise the singular table name.
//  3. Otherwise "record".
func getEntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		entity := strings.TrimSuffix(strings.ToLower(columnName), "_id")
		return humanizeText(entity)
	}

	if tableName != "" {
		return humanizeText(singular(tableName))
	}

	return "record"
}

// humanizeText converts snake_case into Title Case ("birth_city" -> "Birth City").
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

var uniqueConstraintRe = regexp.MustCompile(`_([^_]+)_(?:key|ukey|pkey)$`)

// extractColumnForUniqueViolation infers the column from a unique constraint name.
//
// It supports "unique_<table>_<column>" and "<table>_<column>_(key|ukey|pkey)".
func extractColumnForUniqueViolation(constraintName string) string {
	if constraintName == "" {
		return ""
	}

	if strings.HasPrefix(constraintName, "unique_") {
		parts := strings.Split(constraintName, "_")
		if len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	matches := uniqueConstraintRe.FindStringSubmatch(constraintName)
	if len(matches) > 1 {
		return matches[1]
	}

	return ""
}

// HandleError converts any service or driver error into an API error.
//
// Output:
//   - *errs.HTTPError: returned unchanged
//   - *errs.ValidationError: 400 with field errors
//   - *errs.ConfigurationError: 400
//   - errs.ErrNotFound, pgx.ErrNoRows, sql.ErrNoRows: 404
//   - *errs.ConnectionError: 503
//   - rejected statements: 409 on duplicate key, 400 on other constraint
//     violations, 500 otherwise
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var validationErr *errs.ValidationError
	if errors.As(err, &validationErr) {
		return errs.FromValidationError(validationErr)
	}

	var configErr *errs.ConfigurationError
	if errors.As(err, &configErr) {
		return errs.FromConfigurationError(configErr)
	}

	if errors.Is(err, errs.ErrNotFound) || errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return errs.NewPersonNotFoundError()
	}

	var connErr *errs.ConnectionError
	if errors.As(err, &connErr) {
		return errs.NewServiceUnavailableError()
	}

	var sqlErr *Error
	if !errors.As(err, &sqlErr) {
		classified := Classify("request", err)
		if errors.As(classified, &connErr) {
			return errs.NewServiceUnavailableError()
		}
		if !errors.As(classified, &sqlErr) {
			return errs.NewInternalServerError()
		}
	}

	errorCode := generateErrorCode(sqlErr.TableName, sqlErr.Code)
	userMessage := formatUserFriendlyMessage(sqlErr)

	switch sqlErr.Code {
	case UniqueViolation:
		columnName := sqlErr.ColumnName
		if columnName == "" {
			columnName = extractColumnForUniqueViolation(sqlErr.ConstraintName)
		}
		if columnName != "" {
			userMessage = strings.ReplaceAll(userMessage, "identifier", humanizeText(columnName))
		}
		return errs.NewConflictError(userMessage, true, &errorCode)

	case ForeignKeyViolation:
		return errs.NewBadRequestError(userMessage, false, &errorCode, nil)

	case NotNullViolation:
		fieldErrors := []errs.FieldError{
			{
				Field: strings.ToLower(sqlErr.ColumnName),
				Error: "is required",
			},
		}
		return errs.NewBadRequestError(userMessage, true, &errorCode, fieldErrors)

	case CheckViolation:
		return errs.NewBadRequestError(userMessage, true, &errorCode, nil)

	default:
		// Unknown DB errors must not leak details to clients.
		return errs.NewInternalServerError()
	}
}
