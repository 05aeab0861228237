package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-service-market/internal/core/auth"
	"go-service-market/internal/domain"
	"go-service-market/internal/transport/http/handler"
	mdw "go-service-market/internal/transport/http/middleware"
)

// Deps 路由装配需要的全部依赖
type Deps struct {
	Log   *zap.Logger
	JWTer *auth.JWTer

	Auth      *handler.AuthHandler
	Profiles  *handler.ProfileHandler
	Catalog   *handler.CatalogHandler
	Bookings  *handler.BookingHandler
	Recruiter *handler.RecruiterHandler
	Offline   *handler.OfflineHandler

	CORSOrigins []string

	// 本地存储时挂静态目录，走对象存储留空
	UploadsDir string
}

func NewAPIEngine(d Deps) *gin.Engine {
	r := gin.New()

	// RecoveryWithZap 兜底：业务 Recovery 没接住的 panic 也要落日志
	r.Use(ginzap.RecoveryWithZap(d.Log, true))

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(15*time.Second),
		mdw.Recovery(d.Log),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
	)

	if len(d.CORSOrigins) > 0 {
		cc := cors.DefaultConfig()
		cc.AllowOrigins = d.CORSOrigins
		cc.AllowHeaders = append(cc.AllowHeaders, "Authorization")
		r.Use(cors.New(cc))
	}

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if d.UploadsDir != "" {
		r.Static("/uploads", d.UploadsDir)
	}

	api := r.Group("/api")

	authed := mdw.Authenticate(d.JWTer)
	admin := mdw.RequireAny(domain.RoleAdministrator)
	recruiterOrAdmin := mdw.RequireAny(domain.RoleRecruiter, domain.RoleAdministrator)
	providerOrAdmin := mdw.RequireAny(domain.RoleProvider, domain.RoleAdministrator)

	// 账号（凭证入口单独做每 IP 限速）
	authLimit := mdw.RateLimitPerIP(5, 10)
	api.POST("/auth/register", authLimit, d.Auth.Register)
	api.POST("/auth/login", authLimit, d.Auth.Login)
	api.GET("/auth/profile", authed, d.Auth.Me)
	api.GET("/users", authed, admin, d.Auth.ListUsers)

	// 服务方画像
	// 公开搜索，但管理员带 token 时可以按任意状态过滤
	api.GET("/profiles", mdw.AuthenticateOptional(d.JWTer), d.Profiles.Search)
	api.GET("/profiles/:id", d.Profiles.Get)
	api.POST("/profiles", authed, providerOrAdmin, d.Profiles.Create)
	api.PUT("/profiles/:id", authed, d.Profiles.Update)
	api.PATCH("/profiles/:id/status", authed, admin, d.Profiles.UpdateStatus)

	// 类目与服务目录
	api.GET("/categories", d.Catalog.ListCategories)
	api.POST("/categories", authed, admin, d.Catalog.CreateCategory)
	api.GET("/services", d.Catalog.ListServices)
	api.GET("/services/:id", d.Catalog.GetService)
	api.POST("/services", authed, admin, d.Catalog.CreateService)

	// 预约与时段
	api.POST("/bookings", authed, d.Bookings.Create)
	api.GET("/bookings", authed, d.Bookings.List)
	api.GET("/bookings/:id", authed, d.Bookings.Get)
	api.PATCH("/bookings/:id/status", authed, d.Bookings.UpdateStatus)
	api.GET("/profiles/:id/slots", d.Bookings.ListSlots)
	api.POST("/profiles/:id/slots", authed, providerOrAdmin, d.Bookings.CreateSlot)
	api.PATCH("/slots/:slotId", authed, providerOrAdmin, d.Bookings.SetSlotAvailability)

	// 猎头
	api.POST("/recruiters/register", authLimit, d.Recruiter.Register)
	api.GET("/recruiters", authed, admin, d.Recruiter.List)
	api.GET("/recruiters/me", authed, recruiterOrAdmin, d.Recruiter.Me)
	api.PATCH("/recruiters/me", authed, recruiterOrAdmin, d.Recruiter.UpdateMe)
	api.PATCH("/recruiters/:id", authed, admin, d.Recruiter.UpdateStatus)
	api.POST("/recruiters/invitations", authed, admin, d.Recruiter.Invite)
	api.GET("/recruiters/invitations", authed, admin, d.Recruiter.ListInvitations)
	api.PATCH("/recruiters/invitations/:id/revoke", authed, admin, d.Recruiter.RevokeInvitation)

	// 线下入驻
	offline := api.Group("/offline", authed, recruiterOrAdmin)
	offline.POST("/providers", d.Offline.Onboard)
	offline.GET("/providers", d.Offline.ListOnboarded)
	offline.PATCH("/providers/:id", d.Offline.UpdateOnboarded)
	offline.POST("/providers/:id/documents/upload", d.Offline.UploadDocument)
	offline.GET("/providers/:id/documents", d.Offline.ListDocuments)
	offline.DELETE("/providers/:id/documents/:docId", d.Offline.DeleteDocument)
	offline.POST("/providers/:id/commissions", d.Offline.RecordCommission)
	offline.GET("/providers/:id/commissions", d.Offline.ListCommissions)
	offline.GET("/dashboard/overview", d.Offline.Dashboard)
	offline.GET("/dashboard/activity", d.Offline.Activity)

	return r
}
