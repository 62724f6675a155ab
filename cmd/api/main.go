package main

import (
	"fmt"
	"net/http"

	"github.com/DeiversonMedeiros/payroll-backend-go/internal/config"
	appHTTP "github.com/DeiversonMedeiros/payroll-backend-go/internal/handler/http"
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/pkg/database"
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/pkg/jwt"
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/repository/postgresql"
	calculationService "github.com/DeiversonMedeiros/payroll-backend-go/internal/service/calculation"
	consolidationService "github.com/DeiversonMedeiros/payroll-backend-go/internal/service/consolidation"
	esocialService "github.com/DeiversonMedeiros/payroll-backend-go/internal/service/esocial"
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
	defer db.Close()

	companyRepo := postgresql.NewCompanyRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	hrSourceRepo := postgresql.NewHRSourceRepository(db)
	payrollEventRepo := postgresql.NewPayrollEventRepository(db)
	rubricaRepo := postgresql.NewRubricaRepository(db)
	calculationRepo := postgresql.NewCalculationRepository(db)
	taxRepo := postgresql.NewTaxRepository(db)
	esocialEventRepo := postgresql.NewESocialEventRepository(db)
	esocialBatchRepo := postgresql.NewESocialBatchRepository(db)
	txManager := postgresql.NewTxManager(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	consolidationSvc := consolidationService.NewConsolidationService(
		txManager,
		payrollEventRepo,
		employeeRepo,
		hrSourceRepo,
	)
	calculationSvc := calculationService.NewCalculationService(
		txManager,
		calculationRepo,
		rubricaRepo,
		taxRepo,
		employeeRepo,
		consolidationSvc,
	)
	rubricaSvc := calculationService.NewRubricaService(rubricaRepo, taxRepo)
	esocialSvc := esocialService.NewIntegrationService(
		esocialService.NewRegistry(),
		esocialService.NewSimulatedTransmitter(),
		esocialEventRepo,
		esocialBatchRepo,
		companyRepo,
		employeeRepo,
		calculationRepo,
	)

	eventHandler := appHTTP.NewPayrollEventHandler(consolidationSvc)
	calculationHandler := appHTTP.NewCalculationHandler(calculationSvc)
	rubricaHandler := appHTTP.NewRubricaHandler(rubricaSvc)
	esocialHandler := appHTTP.NewESocialHandler(esocialSvc)

	router := appHTTP.NewRouter(
		jwtService,
		cfg.App.AllowedOrigins,
		eventHandler,
		calculationHandler,
		rubricaHandler,
		esocialHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
