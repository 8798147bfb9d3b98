package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/linkboost/linkboost/internal/analytics"
	"github.com/linkboost/linkboost/internal/link"
	"github.com/linkboost/linkboost/internal/user"
)

const uniqueViolation = "23505"

// PostgresStore is a PostgreSQL implementation of the user, link, and click
// repositories plus the analytics aggregator.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// --- user.Repository ---

func (p *PostgresStore) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (username, password)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := p.pool.QueryRow(ctx, query, u.Username, u.Password).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return user.ErrUsernameTaken
		}

		return err
	}

	return nil
}

func (p *PostgresStore) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return p.getUser(ctx, `SELECT id, username, password, created_at FROM users WHERE id = $1`, id)
}

func (p *PostgresStore) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	return p.getUser(ctx, `SELECT id, username, password, created_at FROM users WHERE username = $1`, username)
}

func (p *PostgresStore) getUser(ctx context.Context, query string, arg any) (*user.User, error) {
	var u user.User

	err := p.pool.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Username, &u.Password, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}

		return nil, err
	}

	return &u, nil
}

// --- link.Repository ---

// Links returns the link-facing view of the store.
func (p *PostgresStore) Links() *PostgresLinkStore {
	return &PostgresLinkStore{pool: p.pool}
}

// PostgresLinkStore implements link.Repository over the links table.
type PostgresLinkStore struct {
	pool *pgxpool.Pool
}

const linkColumns = `id, user_id, original_url, short_code,
	COALESCE(custom_domain, ''), COALESCE(title, ''), COALESCE(category, ''),
	COALESCE(password, ''), is_published, created_at`

func (s *PostgresLinkStore) Create(ctx context.Context, l *link.Link) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Claim the code in the registry first. Rows there outlive the link, so
	// a code stays taken even after its link is deleted.
	if _, err := tx.Exec(ctx, `INSERT INTO short_codes (code) VALUES ($1)`, l.ShortCode); err != nil {
		if isUniqueViolation(err) {
			return link.ErrCodeTaken
		}

		return err
	}

	query := `
		INSERT INTO links (user_id, original_url, short_code, custom_domain, title, category, password, is_published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err = tx.QueryRow(ctx, query,
		l.UserID,
		l.OriginalURL,
		l.ShortCode,
		nullable(l.CustomDomain),
		nullable(l.Title),
		nullable(l.Category),
		nullable(l.Password),
		l.IsPublished,
	).Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return link.ErrCodeTaken
		}

		return err
	}

	return tx.Commit(ctx)
}

func (s *PostgresLinkStore) GetByID(ctx context.Context, id int64) (*link.Link, error) {
	return s.getLink(ctx, fmt.Sprintf(`SELECT %s FROM links WHERE id = $1`, linkColumns), id)
}

func (s *PostgresLinkStore) GetByShortCode(ctx context.Context, code string) (*link.Link, error) {
	return s.getLink(ctx, fmt.Sprintf(`SELECT %s FROM links WHERE short_code = $1`, linkColumns), code)
}

func (s *PostgresLinkStore) GetByCustomDomain(ctx context.Context, domain string) (*link.Link, error) {
	return s.getLink(ctx, fmt.Sprintf(`SELECT %s FROM links WHERE custom_domain = $1`, linkColumns), domain)
}

func (s *PostgresLinkStore) getLink(ctx context.Context, query string, arg any) (*link.Link, error) {
	var l link.Link

	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&l.ID, &l.UserID, &l.OriginalURL, &l.ShortCode,
		&l.CustomDomain, &l.Title, &l.Category,
		&l.Password, &l.IsPublished, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, link.ErrNotFound
		}

		return nil, err
	}

	return &l, nil
}

func (s *PostgresLinkStore) ListByOwner(ctx context.Context, userID int64) ([]*link.Link, error) {
	query := fmt.Sprintf(`SELECT %s FROM links WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, linkColumns)

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*link.Link

	for rows.Next() {
		var l link.Link

		if err := rows.Scan(
			&l.ID, &l.UserID, &l.OriginalURL, &l.ShortCode,
			&l.CustomDomain, &l.Title, &l.Category,
			&l.Password, &l.IsPublished, &l.CreatedAt,
		); err != nil {
			return nil, err
		}

		out = append(out, &l)
	}

	return out, rows.Err()
}

func (s *PostgresLinkStore) ListPublished(ctx context.Context) ([]*link.PublicLink, error) {
	query := `
		SELECT l.id, l.user_id, l.original_url, l.short_code,
			COALESCE(l.custom_domain, ''), COALESCE(l.title, ''), COALESCE(l.category, ''),
			COALESCE(l.password, ''), l.is_published, l.created_at,
			u.username
		FROM links l
		JOIN users u ON u.id = l.user_id
		WHERE l.is_published
		ORDER BY l.created_at DESC, l.id DESC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*link.PublicLink

	for rows.Next() {
		var pl link.PublicLink

		if err := rows.Scan(
			&pl.ID, &pl.UserID, &pl.OriginalURL, &pl.ShortCode,
			&pl.CustomDomain, &pl.Title, &pl.Category,
			&pl.Password, &pl.IsPublished, &pl.CreatedAt,
			&pl.Username,
		); err != nil {
			return nil, err
		}

		out = append(out, &pl)
	}

	return out, rows.Err()
}

func (s *PostgresLinkStore) Update(ctx context.Context, id int64, fields link.Update) (*link.Link, error) {
	set := make([]string, 0, 6)
	args := make([]any, 0, 7)

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if fields.OriginalURL != nil {
		add("original_url", *fields.OriginalURL)
	}

	if fields.CustomDomain != nil {
		add("custom_domain", nullable(*fields.CustomDomain))
	}

	if fields.Title != nil {
		add("title", nullable(*fields.Title))
	}

	if fields.Category != nil {
		add("category", nullable(*fields.Category))
	}

	if fields.Password != nil {
		add("password", nullable(*fields.Password))
	}

	if fields.IsPublished != nil {
		add("is_published", *fields.IsPublished)
	}

	if len(set) == 0 {
		return s.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE links SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(set, ", "), len(args), linkColumns,
	)

	var l link.Link

	err := s.pool.QueryRow(ctx, query, args...).Scan(
		&l.ID, &l.UserID, &l.OriginalURL, &l.ShortCode,
		&l.CustomDomain, &l.Title, &l.Category,
		&l.Password, &l.IsPublished, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, link.ErrNotFound
		}

		return nil, err
	}

	return &l, nil
}

func (s *PostgresLinkStore) Delete(ctx context.Context, id int64) error {
	// clicks are removed by ON DELETE CASCADE; the short_codes row stays
	// behind so the code cannot be reissued
	tag, err := s.pool.Exec(ctx, `DELETE FROM links WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return link.ErrNotFound
	}

	return nil
}

// --- link.ClickRecorder ---

func (p *PostgresStore) Record(ctx context.Context, linkID int64, userAgent, ipAddress string) (*link.Click, error) {
	query := `
		INSERT INTO clicks (link_id, user_agent, ip_address)
		VALUES ($1, $2, $3)
		RETURNING id, clicked_at
	`

	c := &link.Click{
		LinkID:    linkID,
		UserAgent: userAgent,
		IPAddress: ipAddress,
	}

	if err := p.pool.QueryRow(ctx, query, linkID, userAgent, ipAddress).Scan(&c.ID, &c.ClickedAt); err != nil {
		return nil, err
	}

	return c, nil
}

// --- analytics.Aggregator ---

func (p *PostgresStore) PerDayCounts(ctx context.Context, linkID int64) ([]analytics.DayCount, error) {
	query := `
		SELECT to_char(clicked_at, 'YYYY-MM-DD') AS day, count(*) AS clicks
		FROM clicks
		WHERE link_id = $1
		GROUP BY day
		ORDER BY day
	`

	rows, err := p.pool.Query(ctx, query, linkID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []analytics.DayCount

	for rows.Next() {
		var dc analytics.DayCount

		if err := rows.Scan(&dc.Day, &dc.Count); err != nil {
			return nil, err
		}

		out = append(out, dc)
	}

	return out, rows.Err()
}

func (p *PostgresStore) Leaderboard(ctx context.Context, topN int) ([]analytics.LeaderboardEntry, error) {
	query := `
		SELECT u.username, count(c.id) AS total
		FROM users u
		LEFT JOIN links l ON l.user_id = u.id
		LEFT JOIN clicks c ON c.link_id = l.id
		GROUP BY u.username
		ORDER BY total DESC, u.username
		LIMIT $1
	`

	rows, err := p.pool.Query(ctx, query, topN)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []analytics.LeaderboardEntry

	for rows.Next() {
		var entry analytics.LeaderboardEntry

		if err := rows.Scan(&entry.Username, &entry.TotalClicks); err != nil {
			return nil, err
		}

		out = append(out, entry)
	}

	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
