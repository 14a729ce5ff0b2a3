package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"customer-reviews-backend/store"
)

type API struct {
	engine *gin.Engine
}

func setupRouter(s *store.Store) *gin.Engine {
	r := gin.Default()

	// Ping test
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	for path, kind := range map[string]string{
		"/customers": store.KindCustomer,
		"/items":     store.KindItem,
		"/reviews":   store.KindReview,
	} {
		r.GET(path, listHandler(s, kind))
		r.GET(path+"/:id", getHandler(s, kind))
		r.DELETE(path+"/:id", deleteHandler(s, kind))
	}

	// Create a customer
	r.POST("/customers", func(c *gin.Context) {
		var input CustomerInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		id, err := s.CreateCustomer(&store.Customer{Name: input.Name})
		if err != nil {
			respondError(c, err)
			return
		}
		respondWith(c, http.StatusCreated, func() (any, error) { return s.GetCustomer(id) })
	})

	// Create an item
	r.POST("/items", func(c *gin.Context) {
		var input ItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		id, err := s.CreateItem(&store.Item{Name: input.Name, Price: *input.Price})
		if err != nil {
			respondError(c, err)
			return
		}
		respondWith(c, http.StatusCreated, func() (any, error) { return s.GetItem(id) })
	})

	// Create a review for an existing customer and item
	r.POST("/reviews", func(c *gin.Context) {
		var input ReviewInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		id, err := s.CreateReview(&store.Review{
			Comment:    input.Comment,
			CustomerID: input.CustomerID,
			ItemID:     input.ItemID,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respondWith(c, http.StatusCreated, func() (any, error) { return s.GetReview(id) })
	})

	r.PATCH("/customers/:id", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		var patch CustomerPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		customer, err := s.GetCustomer(id)
		if err != nil {
			respondError(c, err)
			return
		}
		if patch.Name != nil {
			customer.Name = *patch.Name
		}
		if err := s.Save(customer); err != nil {
			respondError(c, err)
			return
		}
		respondWith(c, http.StatusOK, func() (any, error) { return s.GetCustomer(id) })
	})

	r.PATCH("/items/:id", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		var patch ItemPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		item, err := s.GetItem(id)
		if err != nil {
			respondError(c, err)
			return
		}
		if patch.Name != nil {
			item.Name = *patch.Name
		}
		if patch.Price != nil {
			item.Price = *patch.Price
		}
		if err := s.Save(item); err != nil {
			respondError(c, err)
			return
		}
		respondWith(c, http.StatusOK, func() (any, error) { return s.GetItem(id) })
	})

	r.PATCH("/reviews/:id", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		var patch ReviewPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		review, err := s.GetReview(id)
		if err != nil {
			respondError(c, err)
			return
		}
		if patch.Comment != nil {
			review.Comment = *patch.Comment
		}
		if patch.CustomerID != nil {
			review.CustomerID = *patch.CustomerID
		}
		if patch.ItemID != nil {
			review.ItemID = *patch.ItemID
		}
		if err := s.Save(review); err != nil {
			respondError(c, err)
			return
		}
		respondWith(c, http.StatusOK, func() (any, error) { return s.GetReview(id) })
	})

	return r
}

func New(store *store.Store) (*API, error) {
	return &API{
		engine: setupRouter(store),
	}, nil
}

func (a *API) Handler() http.Handler {
	return a.engine
}

func (a *API) Run(port string) error {
	return a.engine.Run(":" + port)
}

func listHandler(s *store.Store, kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		respondWith(c, http.StatusOK, func() (any, error) { return s.List(kind) })
	}
}

func getHandler(s *store.Store, kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		respondWith(c, http.StatusOK, func() (any, error) { return s.Get(kind, id) })
	}
}

func deleteHandler(s *store.Store, kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		if err := s.Delete(kind, id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// respondWith loads records and writes their serialized form.
func respondWith(c *gin.Context, status int, load func() (any, error)) {
	record, err := load()
	if err != nil {
		respondError(c, err)
		return
	}
	out, err := store.Serialize(record)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, out)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Params.ByName("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

func respondError(c *gin.Context, err error) {
	var integrity *store.ReferentialIntegrityError
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &integrity) && integrity.InUse:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &integrity):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		slog.Error("Request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
