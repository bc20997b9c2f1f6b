package directory

import (
	"fmt"
	"net"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/go-ldap/ldap/v3"
	"github.com/openswoop/syllabank/pkg/roster"
	"go.uber.org/zap"
)

type Config struct {
	URL       string
	BaseDN    string
	Domain    string
	Attribute string
	Timeout   time.Duration
}

type Credentials struct {
	Username string
	Password string
}

type searcher interface {
	Search(req *ldap.SearchRequest) (*ldap.SearchResult, error)
}

// Directory binds to the institution's LDAP server to look up email addresses.
type Directory struct {
	cfg   Config
	creds Credentials
	log   *zap.Logger
}

func New(cfg Config, creds Credentials, log *zap.Logger) Directory {
	if log == nil {
		log = zap.NewNop()
	}
	return Directory{cfg, creds, log}
}

// Open dials and binds a connection that stays open until the session is
// closed.
func (d Directory) Open() (roster.Session, error) {
	dialer := &net.Dialer{Timeout: d.cfg.Timeout}
	conn, err := ldap.DialURL(d.cfg.URL, ldap.DialWithDialer(dialer))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", d.cfg.URL, err)
	}
	conn.SetTimeout(d.cfg.Timeout)

	user := d.creds.Username
	if d.cfg.Domain != "" {
		user = d.cfg.Domain + `\` + user
	}
	if err := conn.Bind(user, d.creds.Password); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to bind as %s: %w", user, err)
	}
	d.log.Info("Bound to directory", zap.String("url", d.cfg.URL), zap.String("user", user))

	return &Session{
		conn:      conn,
		close:     func() { conn.Close() },
		baseDN:    d.cfg.BaseDN,
		attribute: d.cfg.Attribute,
	}, nil
}

type Session struct {
	conn      searcher
	close     func()
	baseDN    string
	attribute string
}

// Email searches the whole directory tree for a person with the given
// surname and given name. The first match wins.
func (s *Session) Email(name roster.Name) (bigquery.NullString, error) {
	// An incomplete name would match far too many people
	if !name.Complete() {
		return bigquery.NullString{}, nil
	}

	req := ldap.NewSearchRequest(
		s.baseDN,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 0, 0, false,
		Filter(name),
		[]string{s.attribute},
		nil,
	)
	res, err := s.conn.Search(req)
	if err != nil {
		return bigquery.NullString{}, err
	}
	if len(res.Entries) == 0 {
		return bigquery.NullString{}, nil
	}

	email := res.Entries[0].GetAttributeValue(s.attribute)
	if email == "" {
		return bigquery.NullString{}, nil
	}
	return bigquery.NullString{StringVal: email, Valid: true}, nil
}

func (s *Session) Close() error {
	if s.close != nil {
		s.close()
		s.close = nil
	}
	return nil
}

// Filter matches the surname and given name exactly, e.g:
// (&(sn=Doe)(givenName=Jane))
func Filter(name roster.Name) string {
	return fmt.Sprintf("(&(sn=%s)(givenName=%s))", ldap.EscapeFilter(name.Last), ldap.EscapeFilter(name.First))
}
