package main

import (
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/studiofit/attendance-backend-go/internal/config"
	appHTTP "github.com/studiofit/attendance-backend-go/internal/handler/http"
	"github.com/studiofit/attendance-backend-go/internal/pkg/challenge"
	"github.com/studiofit/attendance-backend-go/internal/pkg/clock"
	"github.com/studiofit/attendance-backend-go/internal/pkg/cron"
	"github.com/studiofit/attendance-backend-go/internal/pkg/database"
	"github.com/studiofit/attendance-backend-go/internal/pkg/jwt"
	"github.com/studiofit/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/studiofit/attendance-backend-go/internal/service/attendance"
	classSessionService "github.com/studiofit/attendance-backend-go/internal/service/classsession"
	processingService "github.com/studiofit/attendance-backend-go/internal/service/processing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	appClock, err := clock.NewSystemClock(cfg.App.Timezone)
	if err != nil {
		fmt.Println("Error loading timezone:", err)
		return
	}

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	classSessionRepo := postgresql.NewClassSessionRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	organizationRepo := postgresql.NewOrganizationRepository(db)
	ledgerRepo := postgresql.NewLedgerRepository(db)
	txManager := postgresql.NewTxManager(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	challengeStore := challenge.NewStore(rdb, cfg.App.ChallengeTTL)

	processingSvc := processingService.NewProcessingService(
		attendanceRepo,
		employeeRepo,
		organizationRepo,
		ledgerRepo,
		appClock,
	)
	attendanceSvc := attendanceService.NewAttendanceService(
		txManager,
		attendanceRepo,
		organizationRepo,
		challengeStore,
		appClock,
		processingSvc,
		cfg.App.ChallengeTTL,
	)
	classSessionSvc := classSessionService.NewClassSessionService(
		classSessionRepo,
		attendanceRepo,
		appClock,
	)

	scheduler := cron.NewScheduler()
	cron.NewProcessingJobs(processingSvc).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	classSessionHandler := appHTTP.NewClassSessionHandler(classSessionSvc)
	processingHandler := appHTTP.NewProcessingHandler(processingSvc)

	router := appHTTP.NewRouter(
		JWTService,
		attendanceHandler,
		classSessionHandler,
		processingHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
