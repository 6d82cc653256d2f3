package acl

import (
	"errors"
	"fmt"

	"github.com/openmined/syftperm/internal/aclspec"
	"github.com/openmined/syftperm/internal/store"
)

var (
	ErrNoAdminAccess      = errors.New("no admin access")
	ErrNoWriteAccess      = errors.New("no write access")
	ErrNoCreateAccess     = errors.New("no create access")
	ErrNoReadAccess       = errors.New("no read access")
	ErrDirsNotAllowed     = errors.New("directories not allowed")
	ErrSymlinksNotAllowed = errors.New("symlinks not allowed")
	ErrFileSizeExceeded   = errors.New("file size exceeds limits")
	ErrInvalidAccessLevel = errors.New("invalid access level")
)

// Service resolves, explains and mutates path permissions against the rule
// documents held by its store. It is stateless between calls apart from the
// resolution cache and safe for concurrent use.
type Service struct {
	store store.Store
	cache *resolveCache
}

// Option configures a Service.
type Option func(*options)

type options struct {
	cacheSize int
}

// WithCacheSize overrides the resolution cache capacity.
func WithCacheSize(size int) Option {
	return func(o *options) {
		o.cacheSize = size
	}
}

// NewService creates a permission service over the given document store.
func NewService(st store.Store, opts ...Option) *Service {
	o := &options{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(o)
	}
	return &Service{
		store: st,
		cache: newResolveCache(o.cacheSize),
	}
}

// CanAccess checks whether the request's user holds the requested level on
// the path, returning nil when access is allowed.
func (s *Service) CanAccess(req *Request) error {
	if req.User == nil || req.Level == AccessNone || req.Level > AccessAdmin {
		return ErrInvalidAccessLevel
	}

	path := NormPath(req.Path)

	// Writing a rule document governs everyone below it, so it takes the
	// document owner's level regardless of the requested one.
	level := req.Level
	if aclspec.IsACLFile(path) && level >= AccessCreate {
		level = AccessAdmin
	}

	grant, err := s.Resolve(path, req.User.ID)
	if err != nil {
		return err
	}

	if !grant.HasLevel(level) {
		return fmt.Errorf("user %q on path %q: %w", req.User.ID, path, deniedErr(level))
	}

	// Owners bypass limits along with everything else.
	if grant.Sources[0].Kind == SourceOwner {
		return nil
	}

	if req.File != nil && level >= AccessCreate {
		if err := s.checkLimits(path, grant, req.File); err != nil {
			return fmt.Errorf("user %q on path %q: %w", req.User.ID, path, err)
		}
	}

	return nil
}

// checkLimits applies the granting rule's limits to the file being written.
func (s *Service) checkLimits(path string, grant *Grant, file *File) error {
	table, err := s.permTableFor(path)
	if err != nil {
		return err
	}

	entry := table.entries[grant.Level]
	if entry == nil || entry.rule.Limits == nil {
		return nil
	}
	limits := entry.rule.Limits

	if limits.MaxFileSize > 0 && file.Size > limits.MaxFileSize {
		return ErrFileSizeExceeded
	}
	if !limits.AllowDirs && file.IsDir {
		return ErrDirsNotAllowed
	}
	if !limits.AllowSymlinks && file.IsSymlink {
		return ErrSymlinksNotAllowed
	}

	return nil
}

func deniedErr(level AccessLevel) error {
	switch level {
	case AccessAdmin:
		return ErrNoAdminAccess
	case AccessWrite:
		return ErrNoWriteAccess
	case AccessCreate:
		return ErrNoCreateAccess
	case AccessRead:
		return ErrNoReadAccess
	default:
		return ErrInvalidAccessLevel
	}
}
