package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
)

// NewContentHandler mounts every content store: public reads on public,
// editor writes on admin.
func NewContentHandler(public, admin *gin.RouterGroup, content *domain.ContentUsecases) {
	registerCollection(public, admin, "projects", content.Projects)
	registerCollection(public, admin, "experiences", content.Experiences)
	registerCollection(public, admin, "testimonials", content.Testimonials)
	registerCollection(public, admin, "certifications", content.Certifications)
	registerCollection(public, admin, "services", content.Services)
	registerCollection(public, admin, "gallery", content.Gallery)
	registerCollection(public, admin, "resources", content.Resources)

	registerSingleton(public, admin, "profile", content.Profile)
	registerSingleton(public, admin, "audio-intro", content.AudioIntro)
}

type collectionHandler[T any] struct {
	uc domain.CollectionUsecase[T]
}

func registerCollection[T any](public, admin *gin.RouterGroup, path string, uc domain.CollectionUsecase[T]) {
	h := &collectionHandler[T]{uc: uc}

	public.GET("/"+path, h.List)
	public.GET("/"+path+"/:id", h.Get)

	editor := admin.Group("/" + path)
	{
		editor.GET("", h.EditorList)
		editor.POST("", h.Create)
		editor.PATCH("/:id", h.Update)
		editor.DELETE("/:id", h.Delete)
	}
}

// List godoc
// @Summary      List content
// @Description  Public list of one collection with display placeholders applied.
// @Tags         content
// @Produce      json
// @Param        collection  path      string  true   "projects, experiences, testimonials, certifications, services, gallery or resources"
// @Param        featured    query     bool    false  "Only featured (true) or non-featured (false) items"
// @Param        type        query     string  false  "Gallery media type"
// @Param        category    query     string  false  "Resource category"
// @Param        sort        query     string  false  "startDate (experiences) or rating (testimonials)"
// @Param        limit       query     int     false  "Maximum number of items"
// @Success      200         {object}  response.Response
// @Failure      400         {object}  response.Response
// @Router       /{collection} [get]
func (h *collectionHandler[T]) List(c *gin.Context) {
	q, err := parseListQuery(c)
	if err != nil {
		c.Error(err)
		return
	}
	setRevision(c, h.uc.Revision())
	response.Success(c, http.StatusOK, "OK", h.uc.Display(c.Request.Context(), q))
}

// EditorList returns stored records as saved, without placeholders
func (h *collectionHandler[T]) EditorList(c *gin.Context) {
	q, err := parseListQuery(c)
	if err != nil {
		c.Error(err)
		return
	}
	setRevision(c, h.uc.Revision())
	response.Success(c, http.StatusOK, "OK", h.uc.List(c.Request.Context(), q))
}

// Get godoc
// @Summary      Get content item
// @Tags         content
// @Produce      json
// @Param        collection  path      string  true  "Collection name"
// @Param        id          path      string  true  "Item ID"
// @Success      200         {object}  response.Response
// @Failure      404         {object}  response.Response
// @Router       /{collection}/{id} [get]
func (h *collectionHandler[T]) Get(c *gin.Context) {
	item, err := h.uc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	setRevision(c, h.uc.Revision())
	response.Success(c, http.StatusOK, "OK", item)
}

// Create godoc
// @Summary      Add content item
// @Description  Prepends a new item. The id is generated server side; any id in the body is ignored.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        collection  path      string  true   "Collection name"
// @Param        If-Match    header    string  false  "Expected collection revision"
// @Success      201         {object}  response.Response
// @Failure      400         {object}  response.Response
// @Failure      401         {object}  response.Response
// @Failure      409         {object}  response.Response
// @Router       /admin/{collection} [post]
func (h *collectionHandler[T]) Create(c *gin.Context) {
	opts, err := mutateOptions(c)
	if err != nil {
		c.Error(err)
		return
	}
	var entity T
	if err := c.ShouldBindJSON(&entity); err != nil {
		c.Error(bindError(err))
		return
	}

	created, err := h.uc.Create(c.Request.Context(), entity, opts)
	if err != nil {
		c.Error(err)
		return
	}
	setRevision(c, h.uc.Revision())
	response.Success(c, http.StatusCreated, "Item created", created)
}

// Update godoc
// @Summary      Patch content item
// @Description  Shallow merge of the JSON body into the stored item. Unknown ids change nothing and report result "not_found".
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        collection  path      string  true   "Collection name"
// @Param        id          path      string  true   "Item ID"
// @Param        If-Match    header    string  false  "Expected collection revision"
// @Success      200         {object}  response.Response
// @Failure      400         {object}  response.Response
// @Failure      409         {object}  response.Response
// @Router       /admin/{collection}/{id} [patch]
func (h *collectionHandler[T]) Update(c *gin.Context) {
	opts, err := mutateOptions(c)
	if err != nil {
		c.Error(err)
		return
	}
	patch, err := readBody(c)
	if err != nil {
		c.Error(err)
		return
	}

	res, err := h.uc.Update(c.Request.Context(), c.Param("id"), patch, opts)
	if err != nil {
		c.Error(err)
		return
	}
	setRevision(c, res.Revision)
	response.Success(c, http.StatusOK, mutationMessage(res), res)
}

// Delete godoc
// @Summary      Delete content item
// @Tags         admin
// @Produce      json
// @Param        collection  path      string  true   "Collection name"
// @Param        id          path      string  true   "Item ID"
// @Param        If-Match    header    string  false  "Expected collection revision"
// @Success      200         {object}  response.Response
// @Failure      409         {object}  response.Response
// @Router       /admin/{collection}/{id} [delete]
func (h *collectionHandler[T]) Delete(c *gin.Context) {
	opts, err := mutateOptions(c)
	if err != nil {
		c.Error(err)
		return
	}

	res, err := h.uc.Delete(c.Request.Context(), c.Param("id"), opts)
	if err != nil {
		c.Error(err)
		return
	}
	setRevision(c, res.Revision)
	response.Success(c, http.StatusOK, mutationMessage(res), res)
}

func mutationMessage(res domain.MutationResult) string {
	switch res.Outcome {
	case domain.OutcomeUpdated:
		return "Item updated"
	case domain.OutcomeDeleted:
		return "Item deleted"
	case domain.OutcomeNotFound:
		return "No item with that id, nothing changed"
	default:
		return "OK"
	}
}

type singletonHandler[T any] struct {
	uc domain.SingletonUsecase[T]
}

func registerSingleton[T any](public, admin *gin.RouterGroup, path string, uc domain.SingletonUsecase[T]) {
	h := &singletonHandler[T]{uc: uc}
	public.GET("/"+path, h.Get)
	admin.GET("/"+path, h.Get)
	admin.PATCH("/"+path, h.Update)
}

// Get godoc
// @Summary      Get profile or audio intro
// @Tags         content
// @Produce      json
// @Param        singleton  path      string  true  "profile or audio-intro"
// @Success      200        {object}  response.Response
// @Router       /{singleton} [get]
func (h *singletonHandler[T]) Get(c *gin.Context) {
	setRevision(c, h.uc.Revision())
	response.Success(c, http.StatusOK, "OK", h.uc.Get(c.Request.Context()))
}

// Update godoc
// @Summary      Patch profile or audio intro
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        singleton  path      string  true   "profile or audio-intro"
// @Param        If-Match   header    string  false  "Expected revision"
// @Success      200        {object}  response.Response
// @Failure      400        {object}  response.Response
// @Failure      409        {object}  response.Response
// @Router       /admin/{singleton} [patch]
func (h *singletonHandler[T]) Update(c *gin.Context) {
	opts, err := mutateOptions(c)
	if err != nil {
		c.Error(err)
		return
	}
	patch, err := readBody(c)
	if err != nil {
		c.Error(err)
		return
	}

	updated, err := h.uc.Update(c.Request.Context(), patch, opts)
	if err != nil {
		c.Error(err)
		return
	}
	setRevision(c, h.uc.Revision())
	response.Success(c, http.StatusOK, "Saved", updated)
}
