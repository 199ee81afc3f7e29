package postgres

import sq "github.com/Masterminds/squirrel"

// Builder is the squirrel statement builder for PostgreSQL placeholders.
var Builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
