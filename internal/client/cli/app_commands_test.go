package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/dirkeeper/internal/client/config"
	"github.com/dmitrijs2005/dirkeeper/internal/client/models"
	"github.com/dmitrijs2005/dirkeeper/internal/client/services"
	"github.com/stretchr/testify/require"
)

// ------------ helpers ------------

func readerFromLines(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func newTestApp(us services.UserService, as services.AuthService, reader *bufio.Reader) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{
		config: &config.Config{PageLimit: 10},
		users:  us,
		auth:   as,
		reader: reader,
		out:    &out,
	}, &out
}

type fakeUsers struct {
	listOut *services.UserList
	listErr error

	getID  int64
	getOut *models.User
	getErr error

	created   *models.User
	createOut *models.User
	createErr error

	updateID    int64
	updatePatch models.UserPatch
	updateOut   *models.User
	updateErr   error

	deleteID  int64
	deleteErr error
}

func (f *fakeUsers) List(ctx context.Context, limit, skip int) (*services.UserList, error) {
	return f.listOut, f.listErr
}
func (f *fakeUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	f.getID = id
	return f.getOut, f.getErr
}
func (f *fakeUsers) Create(ctx context.Context, payload *models.User) (*models.User, error) {
	f.created = payload
	return f.createOut, f.createErr
}
func (f *fakeUsers) Update(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	f.updateID = id
	f.updatePatch = patch
	return f.updateOut, f.updateErr
}
func (f *fakeUsers) Delete(ctx context.Context, id int64) error {
	f.deleteID = id
	return f.deleteErr
}

type fakeAuth struct {
	session models.Session

	loginUser string
	loginPass string
	loginOut  models.Session
	loginErr  error

	logoutCalled bool

	cached *models.User

	profilePatch models.UserPatch
	profileOut   models.Session
	profileErr   error

	deleteSelfCalled bool
	deleteSelfErr    error
}

func (f *fakeAuth) Bootstrap(ctx context.Context) models.Session { return f.session }
func (f *fakeAuth) Login(ctx context.Context, username, password string) (models.Session, error) {
	f.loginUser = username
	f.loginPass = password
	return f.loginOut, f.loginErr
}
func (f *fakeAuth) Logout(ctx context.Context) models.Session {
	f.logoutCalled = true
	f.session = models.Session{State: models.StateAnonymous}
	return f.session
}
func (f *fakeAuth) Session() models.Session                     { return f.session }
func (f *fakeAuth) CachedUser(ctx context.Context) *models.User { return f.cached }
func (f *fakeAuth) UpdateProfile(ctx context.Context, patch models.UserPatch) (models.Session, error) {
	f.profilePatch = patch
	return f.profileOut, f.profileErr
}
func (f *fakeAuth) DeleteSelf(ctx context.Context) (models.Session, error) {
	f.deleteSelfCalled = true
	return models.Session{State: models.StateAnonymous}, f.deleteSelfErr
}

func authedSession() models.Session {
	return models.Session{
		State: models.StateAuthenticated,
		Token: "tok",
		User:  &models.User{ID: 1, FirstName: "Emily", LastName: "Johnson", Username: "emilys", Email: "emily@example.com"},
	}
}

// ------------ list / show ------------

func TestListPrintsRows(t *testing.T) {
	us := &fakeUsers{listOut: &services.UserList{
		Users: []models.User{
			{ID: 1, FirstName: "Emily", LastName: "Johnson", Email: "emily@example.com"},
			{ID: 2, FirstName: "Michael", LastName: "Williams", Email: "michael@example.com"},
		},
		Total: 2,
	}}
	app, out := newTestApp(us, &fakeAuth{}, readerFromLines())

	app.list(context.Background(), nil)

	require.Contains(t, out.String(), "Emily Johnson")
	require.Contains(t, out.String(), "michael@example.com")
	require.Contains(t, out.String(), "Page 1 of 1 (2 users)")
}

func TestListInvalidPage(t *testing.T) {
	app, out := newTestApp(&fakeUsers{}, &fakeAuth{}, readerFromLines())
	app.list(context.Background(), []string{"zero"})
	require.Contains(t, out.String(), "Invalid page")
}

func TestListEmpty(t *testing.T) {
	us := &fakeUsers{listOut: &services.UserList{}}
	app, out := newTestApp(us, &fakeAuth{}, readerFromLines())
	app.list(context.Background(), nil)
	require.Contains(t, out.String(), "No users found")
}

func TestShow(t *testing.T) {
	us := &fakeUsers{getOut: &models.User{
		ID: 42, FirstName: "Emily", LastName: "Johnson", Username: "emilys",
		Address: &models.Address{City: "Phoenix", State: "AZ"},
	}}
	app, out := newTestApp(us, &fakeAuth{}, readerFromLines())

	app.show(context.Background(), []string{"42"})

	require.Equal(t, int64(42), us.getID)
	require.Contains(t, out.String(), "Emily Johnson")
	require.Contains(t, out.String(), "Phoenix")
}

func TestShowBadArgs(t *testing.T) {
	app, out := newTestApp(&fakeUsers{}, &fakeAuth{}, readerFromLines())
	app.show(context.Background(), []string{"abc"})
	require.Contains(t, out.String(), "invalid id")
}

// ------------ add ------------

func TestAdd(t *testing.T) {
	us := &fakeUsers{createOut: &models.User{ID: 1756000000000, FirstName: "Amy", LastName: "Pond"}}
	app, out := newTestApp(us, &fakeAuth{}, readerFromLines(
		"Amy", "Pond", "amyp", "amy@example.com", "",
	))

	app.add(context.Background())

	require.NotNil(t, us.created)
	require.Equal(t, "Amy", us.created.FirstName)
	require.Equal(t, "amyp", us.created.Username)
	require.Equal(t, "", us.created.Phone)
	require.Contains(t, out.String(), "Created user Amy Pond with id 1756000000000")
}

func TestAddServiceError(t *testing.T) {
	us := &fakeUsers{createErr: errors.New("record must not be empty")}
	app, out := newTestApp(us, &fakeAuth{}, readerFromLines("", "", "", "", ""))
	app.add(context.Background())
	require.Contains(t, out.String(), "record must not be empty")
}

// ------------ edit / delete ------------

func TestEditSparsePatch(t *testing.T) {
	us := &fakeUsers{
		getOut:    &models.User{ID: 7, FirstName: "Emily"},
		updateOut: &models.User{ID: 7, FirstName: "Amy"},
	}
	// only first name touched, everything else skipped
	app, out := newTestApp(us, &fakeAuth{}, readerFromLines(
		"Amy", "", "", "", "", "",
	))

	app.edit(context.Background(), []string{"7"})

	require.Equal(t, int64(7), us.updateID)
	require.NotNil(t, us.updatePatch.FirstName)
	require.Equal(t, "Amy", *us.updatePatch.FirstName)
	require.Nil(t, us.updatePatch.LastName)
	require.Nil(t, us.updatePatch.Address)
	require.Contains(t, out.String(), "Updated user 7")
}

func TestEditNothingToChange(t *testing.T) {
	us := &fakeUsers{getOut: &models.User{ID: 7}}
	app, out := newTestApp(us, &fakeAuth{}, readerFromLines("", "", "", "", "", ""))

	app.edit(context.Background(), []string{"7"})

	require.Equal(t, int64(0), us.updateID)
	require.Contains(t, out.String(), "Nothing to change")
}

func TestEditNestedGroups(t *testing.T) {
	us := &fakeUsers{
		getOut:    &models.User{ID: 7},
		updateOut: &models.User{ID: 7},
	}
	app, _ := newTestApp(us, &fakeAuth{}, readerFromLines(
		"", "", "", "", "Madrid", "Initech",
	))

	app.edit(context.Background(), []string{"7"})

	require.NotNil(t, us.updatePatch.Address)
	require.Equal(t, "Madrid", *us.updatePatch.Address.City)
	require.NotNil(t, us.updatePatch.Company)
	require.Equal(t, "Initech", *us.updatePatch.Company.Name)
}

func TestDeleteConfirmed(t *testing.T) {
	us := &fakeUsers{}
	app, out := newTestApp(us, &fakeAuth{}, readerFromLines("y"))

	app.delete(context.Background(), []string{"5"})

	require.Equal(t, int64(5), us.deleteID)
	require.Contains(t, out.String(), "Deleted user 5")
}

func TestDeleteCancelled(t *testing.T) {
	us := &fakeUsers{}
	app, out := newTestApp(us, &fakeAuth{}, readerFromLines("n"))

	app.delete(context.Background(), []string{"5"})

	require.Equal(t, int64(0), us.deleteID)
	require.Contains(t, out.String(), "Cancelled")
}

// ------------ auth commands ------------

func TestLogin(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) { return []byte("emilyspass"), nil }

	as := &fakeAuth{loginOut: authedSession()}
	app, out := newTestApp(&fakeUsers{}, as, readerFromLines("emilys"))

	app.login(context.Background())

	require.Equal(t, "emilys", as.loginUser)
	require.Equal(t, "emilyspass", as.loginPass)
	require.Contains(t, out.String(), "Signed in as Emily Johnson")
}

func TestLoginFailure(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) { return []byte("bad"), nil }

	as := &fakeAuth{
		loginOut: models.Session{State: models.StateAnonymous, Err: "Invalid credentials"},
		loginErr: errors.New("Invalid credentials"),
	}
	app, out := newTestApp(&fakeUsers{}, as, readerFromLines("emilys"))

	app.login(context.Background())

	require.Contains(t, out.String(), "Login failed: Invalid credentials")
}

func TestLogout(t *testing.T) {
	as := &fakeAuth{session: authedSession()}
	app, out := newTestApp(&fakeUsers{}, as, readerFromLines())

	app.logout(context.Background())

	require.True(t, as.logoutCalled)
	require.Contains(t, out.String(), "Signed out")
}

func TestMeRequiresAuth(t *testing.T) {
	as := &fakeAuth{session: models.Session{State: models.StateAnonymous}}
	app, out := newTestApp(&fakeUsers{}, as, readerFromLines())

	app.me(context.Background())

	require.Contains(t, out.String(), "Not signed in")
}

func TestMe(t *testing.T) {
	as := &fakeAuth{session: authedSession()}
	app, out := newTestApp(&fakeUsers{}, as, readerFromLines())

	app.me(context.Background())

	require.Contains(t, out.String(), "emilys")
	require.Contains(t, out.String(), "emily@example.com")
}

// ------------ profile / deleteself ------------

func TestProfile(t *testing.T) {
	sess := authedSession()
	as := &fakeAuth{
		session: sess,
		profileOut: models.Session{
			State: models.StateAuthenticated,
			User:  &models.User{ID: 1, FirstName: "Emilia", LastName: "Johnson"},
		},
	}
	app, out := newTestApp(&fakeUsers{}, as, readerFromLines(
		"Emilia", "", "", "", "", "",
	))

	app.profile(context.Background())

	require.NotNil(t, as.profilePatch.FirstName)
	require.Equal(t, "Emilia", *as.profilePatch.FirstName)
	require.Contains(t, out.String(), "Profile updated")
	require.Contains(t, out.String(), "Emilia Johnson")
}

func TestProfileRequiresAuth(t *testing.T) {
	as := &fakeAuth{session: models.Session{State: models.StateAnonymous}}
	app, out := newTestApp(&fakeUsers{}, as, readerFromLines())

	app.profile(context.Background())

	require.Contains(t, out.String(), "Not signed in")
}

func TestDeleteSelf(t *testing.T) {
	as := &fakeAuth{session: authedSession()}
	app, out := newTestApp(&fakeUsers{}, as, readerFromLines("yes"))

	app.deleteSelf(context.Background())

	require.True(t, as.deleteSelfCalled)
	require.Contains(t, out.String(), "Account deleted, signed out")
}

func TestDeleteSelfCancelled(t *testing.T) {
	as := &fakeAuth{session: authedSession()}
	app, out := newTestApp(&fakeUsers{}, as, readerFromLines("n"))

	app.deleteSelf(context.Background())

	require.False(t, as.deleteSelfCalled)
	require.Contains(t, out.String(), "Cancelled")
}

// ------------ repl ------------

func TestRootDispatchAndExit(t *testing.T) {
	us := &fakeUsers{listOut: &services.UserList{
		Users: []models.User{{ID: 1, FirstName: "Emily", LastName: "Johnson"}},
		Total: 1,
	}}
	as := &fakeAuth{session: models.Session{State: models.StateAnonymous}}
	app, out := newTestApp(us, as, readerFromLines("help", "list", "bogus", "exit"))

	app.Root(context.Background())

	require.Contains(t, out.String(), "login, list, show <id>, exit")
	require.Contains(t, out.String(), "Emily Johnson")
	require.Contains(t, out.String(), "Unknown command: bogus")
	require.Contains(t, out.String(), "Bye!")
}

func TestRootShowsCachedUserDuringBootstrap(t *testing.T) {
	cached := models.User{ID: 1, FirstName: "Emily", LastName: "Johnson"}
	as := &fakeAuth{session: authedSession(), cached: &cached}
	app, out := newTestApp(&fakeUsers{}, as, readerFromLines("exit"))

	app.Root(context.Background())

	require.Contains(t, out.String(), "Welcome back, Emily Johnson (verifying session...)")
	require.Contains(t, out.String(), "Signed in as Emily Johnson")
}
