package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/sync/errgroup"

	"api_notaria/src/config"
	"api_notaria/src/controllers"
	"api_notaria/src/db"
	"api_notaria/src/middleware"
	"api_notaria/src/mq"
	"api_notaria/src/realtime"
	"api_notaria/src/repository"
	"api_notaria/src/routes"
	"api_notaria/src/services"
	"api_notaria/src/telemetry"
	"api_notaria/src/utils"
)

const nombreServicio = "api_notaria"

func main() {
	sembrar := flag.Bool("seed", false, "llena la base con datos de prueba si está vacía")
	flag.Parse()

	cfg, err := config.Cargar()
	if err != nil {
		log.Fatalf("Error de configuración: %v", err)
	}
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	utils.InitValidators()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTrazas, err := telemetry.Setup(ctx, nombreServicio, cfg.OTELEndpoint)
	if err != nil {
		log.Printf("No se pudo iniciar OpenTelemetry: %v", err)
	}

	mongoClient, database, err := db.Conectar(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.Fatalf("Error conectando a MongoDB: %v", err)
	}
	defer db.Desconectar(mongoClient)
	if err := db.CrearIndices(ctx, database); err != nil {
		log.Fatalf("Error creando índices: %v", err)
	}

	redisClient := utils.ConnectRedis(ctx, cfg.Redis)
	if redisClient != nil {
		defer redisClient.Close()
	}
	cache := services.NewCacheService(redisClient)

	hub := realtime.NewHub(cfg.CORSOrigins)
	defer hub.Cerrar()
	notificadores := services.Multi{hub}
	if cfg.AMQPURL != "" {
		pub, err := mq.Conectar(cfg.AMQPURL)
		if err != nil {
			log.Printf("RabbitMQ no disponible, se continúa sin publicar eventos: %v", err)
		} else {
			defer pub.Cerrar()
			notificadores = append(notificadores, pub)
		}
	}

	// Repositorios
	secuencias := repository.NewSecuenciaRepository(database)
	abogadoRepo := repository.NewAbogadoRepository(database)
	clienteRepo := repository.NewClienteRepository(database)
	salaRepo := repository.NewSalaRepository(database)
	reciboRepo := repository.NewReciboRepository(database)
	presupuestoRepo := repository.NewPresupuestoRepository(database)

	// Servicios
	abogadoSvc := services.NewAbogadoService(abogadoRepo, secuencias, cache)
	salaSvc := services.NewSalaService(salaRepo, cache)
	clienteGenSvc := services.NewClienteGeneralService(repository.NewClienteGeneralRepository(database), cache)
	asignacionSvc := services.NewAsignacionService(abogadoRepo, clienteRepo, salaRepo, secuencias, notificadores, cache)
	authSvc := services.NewAuthService(abogadoRepo, cfg.JWTSecret, cfg.JWTTTL)

	if *sembrar || cfg.Semilla {
		if err := services.NewSemilla(abogadoSvc, salaSvc, clienteGenSvc).Ejecutar(ctx); err != nil {
			log.Fatalf("Error en la semilla: %v", err)
		}
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.OTELEndpoint != "" {
		router.Use(otelgin.Middleware(nombreServicio))
	}

	auth := middleware.RequiereAuth(authSvc)

	routes.AuthRoute(router, controllers.NewAuthController(authSvc, abogadoSvc), auth)
	routes.AbogadoRoute(router, controllers.NewAbogadoController(abogadoSvc, asignacionSvc), auth)
	routes.ClienteRoute(router, controllers.NewClienteController(services.NewClienteService(clienteRepo), asignacionSvc), auth)
	routes.SalaRoute(router, controllers.NewSalaController(salaSvc, asignacionSvc), auth)
	routes.ClienteGeneralRoute(router, controllers.NewClienteGeneralController(clienteGenSvc), auth)
	routes.EscrituraRoute(router, controllers.NewEscrituraController(
		services.NewEscrituraService(repository.NewEscrituraRepository(database))), auth)
	routes.ProtocolitoRoute(router, controllers.NewProtocolitoController(
		services.NewProtocolitoService(repository.NewProtocolitoRepository(database), cache)), auth)
	routes.PresupuestoRoute(router, controllers.NewPresupuestoController(
		services.NewPresupuestoService(presupuestoRepo), cfg.NombreNotaria), auth)
	routes.ReciboRoute(router, controllers.NewReciboController(
		services.NewReciboService(reciboRepo, secuencias), cfg.NombreNotaria), auth)
	routes.PlantillaRoute(router, controllers.NewPlantillaController(
		services.NewPlantillaService(repository.NewPlantillaRepository(database), cfg.NombreNotaria)), auth)
	routes.CalendarRoute(router, controllers.NewCalendarController(
		services.NewCalendarioService(cfg.Microsoft, repository.NewTokenRepository(database), clienteRepo, cache)), auth)
	routes.WhatsAppRoute(router, controllers.NewWhatsAppController(
		services.NewWhatsAppService(cfg.WhatsApp, reciboRepo, presupuestoRepo, cfg.NombreNotaria)), auth)
	var saludRedis func(context.Context) error
	if redisClient != nil {
		saludRedis = func(ctx context.Context) error { return utils.CheckRedisHealth(ctx, redisClient) }
	}
	routes.RealtimeRoute(router, hub.Handler(), hub.Conectados, saludRedis)

	srv := &http.Server{
		Addr:              ":" + cfg.Puerto,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("🚀 Servidor escuchando en %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("Cerrando servidor...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return shutdownTrazas(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		log.Printf("Servidor terminado con error: %v", err)
	}
}
