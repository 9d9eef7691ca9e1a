package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/buildpanel/internal/dbx"
	"github.com/dmitrijs2005/buildpanel/internal/server/repositories/admins"
	"github.com/dmitrijs2005/buildpanel/internal/server/repositories/blacklist"
	"github.com/dmitrijs2005/buildpanel/internal/server/repositories/catalog"
	"github.com/dmitrijs2005/buildpanel/internal/server/repositories/contacts"
	"github.com/dmitrijs2005/buildpanel/internal/server/repositories/filecleanup"
	"github.com/dmitrijs2005/buildpanel/internal/server/repositories/projects"
)

// RepositoryManager vends repositories bound to either the pool or an open
// transaction, so services can compose them inside dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Admins(db dbx.DBTX) admins.Repository
	Blacklist(db dbx.DBTX) blacklist.Repository
	Projects(db dbx.DBTX) projects.Repository
	Services(db dbx.DBTX) catalog.Repository
	Contacts(db dbx.DBTX) contacts.Repository
	FileCleanup(db dbx.DBTX) filecleanup.Repository
}
