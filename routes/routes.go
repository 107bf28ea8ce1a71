package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sisrafilss/local-guide-server/config"
	"github.com/sisrafilss/local-guide-server/controllers"
	"github.com/sisrafilss/local-guide-server/middlewares"
	"github.com/sisrafilss/local-guide-server/models"
	"github.com/sisrafilss/local-guide-server/services"
)

func SetupRouter(db *gorm.DB, cfg *config.AppConfig, paymentSvc *services.PaymentService) *gin.Engine {
	r := gin.Default()

	paymentCtrl := controllers.NewPaymentController(db, paymentSvc, cfg.SSL)

	api := r.Group("/api/v1")

	user := api.Group("/user")
	{
		user.POST("/register-tourist", controllers.RegisterTouristHandler(db, cfg))
		user.POST("/register-guide", controllers.RegisterGuideHandler(db, cfg))
		user.POST("/create-admin", middlewares.CheckAuth(models.RoleAdmin), controllers.CreateAdminHandler(db, cfg))
	}

	auth := api.Group("/auth")
	{
		auth.POST("/login", controllers.LoginHandler(db, cfg))
		auth.POST("/refresh-token", controllers.RefreshTokenHandler(db, cfg))
		auth.POST("/logout", controllers.LogoutHandler(db))
		auth.POST("/change-password", middlewares.CheckAuth(), controllers.ChangePasswordHandler(db, cfg))
		auth.POST("/forgot-password", controllers.ForgotPasswordHandler(db, cfg))
		auth.POST("/reset-password", controllers.ResetPasswordHandler(db, cfg))
		auth.GET("/me", middlewares.CheckAuth(), controllers.GetMeHandler(db))
	}

	tours := api.Group("/tours")
	{
		tours.GET("", controllers.GetAllTours(db))
		tours.GET("/:id", controllers.GetTourByID(db))
		tours.POST("", middlewares.CheckAuth(models.RoleGuide), controllers.CreateTour(db))
		tours.PATCH("/:id", middlewares.CheckAuth(models.RoleGuide), controllers.UpdateTour(db))
		tours.DELETE("/:id", middlewares.CheckAuth(models.RoleGuide, models.RoleAdmin), controllers.DeleteTour(db))
	}

	booking := api.Group("/booking")
	{
		booking.POST("", middlewares.CheckAuth(models.RoleTourist), controllers.CreateBooking(db))
		booking.GET("", middlewares.CheckAuth(models.RoleTourist, models.RoleGuide, models.RoleAdmin), controllers.GetAllBookings(db))
		booking.GET("/stats", middlewares.CheckAuth(models.RoleTourist), controllers.GetBookingStats(db))
		booking.GET("/:id", middlewares.CheckAuth(models.RoleTourist, models.RoleGuide, models.RoleAdmin), controllers.GetBookingByID(db))
		booking.PATCH("/:id", middlewares.CheckAuth(models.RoleTourist), controllers.UpdateBooking(db))
		booking.DELETE("/:id", middlewares.CheckAuth(models.RoleTourist), controllers.DeleteBooking(db))
	}

	tourist := api.Group("/tourist", middlewares.CheckAuth(models.RoleAdmin))
	{
		tourist.GET("", controllers.GetAllTourists(db))
		tourist.GET("/:id", controllers.GetTouristByID(db))
		tourist.PATCH("/:id", controllers.UpdateTourist(db))
		tourist.DELETE("/:id", controllers.DeleteTourist(db))
	}

	guide := api.Group("/guide")
	{
		guide.GET("", controllers.GetAllGuides(db))
		guide.GET("/:id", controllers.GetGuideByID(db))
		guide.PATCH("/:id", middlewares.CheckAuth(models.RoleGuide, models.RoleAdmin), controllers.UpdateGuide(db))
		guide.PATCH("/:id/verify", middlewares.CheckAuth(models.RoleAdmin), controllers.VerifyGuide(db))
	}

	admin := api.Group("/admin", middlewares.CheckAuth(models.RoleAdmin))
	{
		admin.GET("/users", controllers.GetAllUsers(db))
		admin.PATCH("/users/:id/status", controllers.UpdateUserStatus(db))
		admin.DELETE("/users/:id", controllers.DeleteUser(db))
		admin.GET("/stats", controllers.GetDashboardStats(db))
	}

	payment := api.Group("/payment")
	{
		payment.POST("/init/:bookingId", middlewares.CheckAuth(models.RoleTourist), paymentCtrl.InitPayment)
		// No auth: the gateway redirects the user's browser here and the
		// IPN endpoint is called server-to-server.
		payment.GET("/success", paymentCtrl.SuccessPayment)
		payment.GET("/fail", paymentCtrl.FailPayment)
		payment.GET("/cancel", paymentCtrl.CancelPayment)
		payment.POST("/validate", paymentCtrl.ValidatePayment)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "page not found"})
	})

	return r
}
