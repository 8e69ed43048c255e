package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/betodolist/betodolist-api/internal/authz"
	"github.com/betodolist/betodolist-api/internal/config"
	"github.com/betodolist/betodolist-api/internal/database"
	"github.com/betodolist/betodolist-api/internal/handlers"
	"github.com/betodolist/betodolist-api/internal/middleware"
	"github.com/betodolist/betodolist-api/internal/repository"
	"github.com/betodolist/betodolist-api/internal/services"
	"github.com/betodolist/betodolist-api/internal/storage"
	"github.com/betodolist/betodolist-api/internal/ws"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Collapse duplicate (project, title) list rows left over from before the
	// unique index existed, then migrate so the index can be created.
	if err := database.DedupeProjectLists(database.GetDB()); err != nil {
		log.Fatalf("Failed to dedupe project lists: %v", err)
	}
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	blobStore, err := storage.NewLocalBlobStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to init upload dir: %v", err)
	}

	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	listRepo := repository.NewListRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	authzSvc := authz.NewService(db)
	hub := ws.NewHub(cfg.JWTSecret)

	authService := services.NewAuthService(userRepo, cfg.JWTSecret)
	projectService := services.NewProjectService(projectRepo, listRepo, userRepo)
	listService := services.NewListService(listRepo)
	taskService := services.NewTaskService(taskRepo, listRepo)

	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	authHandler := handlers.NewAuthHandler(authService)
	projectHandler := handlers.NewProjectHandler(projectService)
	listHandler := handlers.NewListHandler(listService, authzSvc)
	taskHandler := handlers.NewTaskHandler(taskService, aiService)
	commentHandler := handlers.NewCommentHandler(authzSvc)
	checklistHandler := handlers.NewChecklistHandler(authzSvc)
	labelHandler := handlers.NewLabelHandler(authzSvc)
	attachmentHandler := handlers.NewAttachmentHandler(authzSvc, blobStore)
	assigneeHandler := handlers.NewAssigneeHandler(hub)
	todoHandler := handlers.NewTodoHandler()

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.Static("/uploads", blobStore.Dir())
	r.GET("/ws", hub.HandleConnection)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", middleware.RequireAuth(cfg.JWTSecret), authHandler.Me)
	}

	authed := api.Group("")
	authed.Use(middleware.RequireAuth(cfg.JWTSecret))

	authed.GET("/projects", projectHandler.ListMyProjects)
	authed.POST("/projects", projectHandler.CreateProject)

	member := middleware.RequireProjectAccess(authzSvc, authz.TierMember)
	admin := middleware.RequireProjectAccess(authzSvc, authz.TierAdminOrOwner)

	projects := authed.Group("/projects/:id")
	{
		projects.GET("", member, projectHandler.GetProject)
		projects.GET("/members", member, projectHandler.ListMembers)
		projects.POST("/members", admin, projectHandler.AddMember)
		projects.POST("/invite", admin, projectHandler.InviteByEmail)
		projects.PUT("/members/:userId", admin, projectHandler.ChangeMemberRole)
		projects.DELETE("/members/:userId", admin, projectHandler.RemoveMember)
		projects.POST("/leave", member, projectHandler.LeaveProject)

		projects.GET("/settings", member, projectHandler.GetSettings)
		projects.PUT("/settings", admin, projectHandler.UpdateSettings)
		projects.POST("/archive", admin, projectHandler.ArchiveProject)
		projects.POST("/unarchive", admin, projectHandler.UnarchiveProject)

		projects.GET("/lists", member, listHandler.GetLists)
		projects.POST("/lists", member, listHandler.CreateList)
		projects.PUT("/lists/reorder", member, listHandler.ReorderLists)

		projects.GET("/tasks", member, taskHandler.ListTasks)
		projects.POST("/tasks", member, taskHandler.CreateTask)
		projects.POST("/tasks/generate", member, taskHandler.GenerateTasks)

		projects.GET("/labels", member, labelHandler.ListLabels)
		projects.POST("/labels", admin, labelHandler.CreateLabel)
	}

	authed.PUT("/lists/:listId", listHandler.UpdateList)
	authed.DELETE("/lists/:listId", listHandler.DeleteList)

	taskAccess := middleware.RequireTaskAccess(authzSvc)
	tasks := authed.Group("/tasks/:taskId")
	tasks.Use(taskAccess)
	{
		tasks.PUT("", taskHandler.UpdateTask)
		tasks.DELETE("", taskHandler.DeleteTask)

		tasks.GET("/comments", commentHandler.ListComments)
		tasks.POST("/comments", commentHandler.AddComment)

		tasks.GET("/attachments", attachmentHandler.ListAttachments)
		tasks.POST("/attachments", attachmentHandler.UploadAttachment)

		tasks.GET("/checklists", checklistHandler.ListChecklists)
		tasks.POST("/checklists", checklistHandler.CreateChecklist)

		tasks.GET("/labels", labelHandler.ListTaskLabels)
		tasks.POST("/labels/:labelId", labelHandler.AssignLabel)
		tasks.DELETE("/labels/:labelId", labelHandler.UnassignLabel)

		tasks.GET("/assignees", assigneeHandler.ListAssignees)
		tasks.POST("/assignees", assigneeHandler.AddAssignee)
		tasks.DELETE("/assignees/:userId", assigneeHandler.RemoveAssignee)
	}

	authed.PUT("/comments/:commentId", commentHandler.UpdateComment)
	authed.DELETE("/comments/:commentId", commentHandler.DeleteComment)

	authed.PUT("/checklists/:checklistId", checklistHandler.UpdateChecklist)
	authed.DELETE("/checklists/:checklistId", checklistHandler.DeleteChecklist)
	authed.POST("/checklists/:checklistId/items", checklistHandler.AddItem)
	authed.PUT("/checklist-items/:itemId", checklistHandler.UpdateItem)
	authed.DELETE("/checklist-items/:itemId", checklistHandler.DeleteItem)

	authed.PUT("/labels/:labelId", labelHandler.UpdateLabel)
	authed.DELETE("/labels/:labelId", labelHandler.DeleteLabel)

	authed.DELETE("/attachments/:attachmentId", attachmentHandler.DeleteAttachment)

	todos := authed.Group("/todos")
	{
		todos.GET("", todoHandler.ListTodos)
		todos.POST("", todoHandler.CreateTodo)
		todos.PUT("/:todoId", todoHandler.UpdateTodo)
		todos.DELETE("/:todoId", todoHandler.DeleteTodo)
	}

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
