package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/bkeeper-app/bkeeper-api/api"
	"github.com/bkeeper-app/bkeeper-api/api/scheduler"
	"github.com/bkeeper-app/bkeeper-api/config"
	"github.com/bkeeper-app/bkeeper-api/databases"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router   *mux.Router
	DB       databases.CollectionHelper
	Config   config.Config
	dbHelper databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	m := api.MiddlewareDB{DB: databases.NewUserDatabase(a.dbHelper)}
	m.SetupGoGuardian()

	r := mux.NewRouter()

	u := User{DB: databases.NewUserDatabase(a.dbHelper)}
	ap := Apiary{
		DB:  databases.NewApiaryDatabase(a.dbHelper),
		MDB: databases.NewApiaryMemberDatabase(a.dbHelper),
		UDB: databases.NewUserDatabase(a.dbHelper),
	}
	inv := Invitation{
		DB:  databases.NewInvitationCodeDatabase(a.dbHelper),
		MDB: databases.NewApiaryMemberDatabase(a.dbHelper),
		ADB: databases.NewApiaryDatabase(a.dbHelper),
	}
	h := Hive{DB: databases.NewHiveDatabase(a.dbHelper)}
	insp := Inspection{
		DB:  databases.NewInspectionDatabase(a.dbHelper),
		HDB: databases.NewHiveDatabase(a.dbHelper),
	}
	t := Task{DB: databases.NewTaskDatabase(a.dbHelper)}
	hv := Harvest{DB: databases.NewHarvestDatabase(a.dbHelper)}
	st := Stats{
		HDB:  databases.NewHiveDatabase(a.dbHelper),
		IDB:  databases.NewInspectionDatabase(a.dbHelper),
		TDB:  databases.NewTaskDatabase(a.dbHelper),
		HrDB: databases.NewHarvestDatabase(a.dbHelper),
	}
	cloudinaryHandler := CloudinaryHandler{}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	// websocket notifications
	r.HandleFunc("/ws/notifications", HandleNotificationsWebSocket)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/auth/register", http.HandlerFunc(u.RegisterHandler)).Methods("POST")
	apiCreate.Handle("/auth/login", http.HandlerFunc(u.LoginHandler)).Methods("POST")
	apiCreate.Handle("/auth/token", api.Middleware(http.HandlerFunc(m.CreateToken))).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")

	apiCreate.Handle("/user/{userId}", api.Middleware(http.HandlerFunc(u.UserHandler))).Methods("GET")
	apiCreate.Handle("/user/{userId}/apiaries", api.Middleware(http.HandlerFunc(ap.ApiariesByUserHandler))).Methods("GET")

	apiCreate.Handle("/apiary", api.Middleware(http.HandlerFunc(ap.CreateApiaryHandler))).Methods("POST")
	apiCreate.Handle("/apiary/{apiaryId}", api.Middleware(http.HandlerFunc(ap.ApiaryHandler))).Methods("GET")
	apiCreate.Handle("/apiary/{apiaryId}", api.Middleware(http.HandlerFunc(ap.UpdateApiaryFieldHandler))).Methods("PATCH")
	apiCreate.Handle("/apiary/{apiaryId}", api.Middleware(http.HandlerFunc(ap.DeleteApiaryByIDHandler))).Methods("DELETE")
	apiCreate.Handle("/apiary/{apiaryId}/members", api.Middleware(http.HandlerFunc(ap.ApiaryMembersHandler))).Methods("GET")
	apiCreate.Handle("/apiary/{apiaryId}/stats", api.Middleware(http.HandlerFunc(st.ApiaryStatsHandler))).Methods("GET")

	apiCreate.Handle("/apiary/{apiaryId}/invitations", api.Middleware(http.HandlerFunc(inv.CreateInvitationCodeHandler))).Methods("POST")
	apiCreate.Handle("/apiary/{apiaryId}/invitations", api.Middleware(http.HandlerFunc(inv.InvitationCodesHandler))).Methods("GET")
	apiCreate.Handle("/invitations/redeem", api.Middleware(http.HandlerFunc(inv.UseInvitationCodeHandler))).Methods("POST")
	apiCreate.Handle("/invitations/{codeId}", api.Middleware(http.HandlerFunc(inv.DeactivateInvitationCodeHandler))).Methods("DELETE")
	apiCreate.Handle("/invitations/{codeId}/send", api.Middleware(http.HandlerFunc(inv.SendInvitationCodeHandler))).Methods("POST")

	apiCreate.Handle("/apiary/{apiaryId}/hives", api.Middleware(http.HandlerFunc(h.HivesByApiaryIDHandler))).Methods("GET")
	apiCreate.Handle("/apiary/{apiaryId}/hives", api.Middleware(http.HandlerFunc(h.CreateHiveHandler))).Methods("POST")
	apiCreate.Handle("/hive/{hiveId}", api.Middleware(http.HandlerFunc(h.HiveByIDHandler))).Methods("GET")
	apiCreate.Handle("/hive/{hiveId}", api.Middleware(http.HandlerFunc(h.UpdateHiveFieldHandler))).Methods("PATCH")
	apiCreate.Handle("/hive/{hiveId}", api.Middleware(http.HandlerFunc(h.DeleteHiveByIDHandler))).Methods("DELETE")

	apiCreate.Handle("/apiary/{apiaryId}/inspections", api.Middleware(http.HandlerFunc(insp.InspectionsByApiaryIDHandler))).Methods("GET")
	apiCreate.Handle("/apiary/{apiaryId}/inspections", api.Middleware(http.HandlerFunc(insp.CreateInspectionHandler))).Methods("POST")
	apiCreate.Handle("/inspection/{inspectionId}", api.Middleware(http.HandlerFunc(insp.InspectionByIDHandler))).Methods("GET")
	apiCreate.Handle("/inspection/{inspectionId}", api.Middleware(http.HandlerFunc(insp.DeleteInspectionByIDHandler))).Methods("DELETE")

	apiCreate.Handle("/apiary/{apiaryId}/tasks", api.Middleware(http.HandlerFunc(t.TasksByApiaryIDHandler))).Methods("GET")
	apiCreate.Handle("/apiary/{apiaryId}/tasks", api.Middleware(http.HandlerFunc(t.CreateTaskHandler))).Methods("POST")
	apiCreate.Handle("/task/{taskId}/completion", api.Middleware(http.HandlerFunc(t.SetTaskCompletionHandler))).Methods("PUT")
	apiCreate.Handle("/task/{taskId}", api.Middleware(http.HandlerFunc(t.DeleteTaskByIDHandler))).Methods("DELETE")

	apiCreate.Handle("/apiary/{apiaryId}/harvests", api.Middleware(http.HandlerFunc(hv.HarvestsByApiaryIDHandler))).Methods("GET")
	apiCreate.Handle("/apiary/{apiaryId}/harvests", api.Middleware(http.HandlerFunc(hv.CreateHarvestHandler))).Methods("POST")
	apiCreate.Handle("/harvest/{harvestId}", api.Middleware(http.HandlerFunc(hv.DeleteHarvestByIDHandler))).Methods("DELETE")

	apiCreate.Handle("/cloudinary/signature", api.Middleware(http.HandlerFunc(cloudinaryHandler.GenerateSignature))).Methods("GET")

	r.Use(api.TimeoutMiddleware(30 * time.Second))

	return r
}

// Initialize connects to the database, ensures indexes and builds the router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("bkeeper-api has connected to the database")

	// unique indexes back the invitation code and membership invariants;
	// the in-handler checks alone cannot survive concurrent writers
	ctx, cancel := api.WithQueryTimeout(nil)
	defer cancel()
	if err := databases.NewInvitationCodeDatabase(a.dbHelper).EnsureIndexes(ctx); err != nil {
		zap.S().With(err).Error("failed to ensure invitation code indexes")
		return err
	}
	if err := databases.NewApiaryMemberDatabase(a.dbHelper).EnsureIndexes(ctx); err != nil {
		zap.S().With(err).Error("failed to ensure apiary member indexes")
		return err
	}
	if err := databases.NewSchedulerLockDatabase(a.dbHelper).EnsureIndexes(ctx); err != nil {
		zap.S().With(err).Error("failed to ensure scheduler lock indexes")
		return err
	}

	// start the task reminder scheduler
	s := scheduler.NewScheduler(
		databases.NewTaskDatabase(a.dbHelper),
		databases.NewUserDatabase(a.dbHelper),
		databases.NewApiaryMemberDatabase(a.dbHelper),
		databases.NewSchedulerLockDatabase(a.dbHelper),
	)
	s.Start()

	// initialize api router
	a.Router = a.New()
	return nil
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, `{"alive": true}`)
}
