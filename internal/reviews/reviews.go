package reviews

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/localmart/internal/db"
	appmw "github.com/sudo-init-do/localmart/internal/middleware"
)

// Review is one rating left by reviewer for reviewee; one per pair
type Review struct {
	ID         string    `json:"id"`
	ReviewerID string    `json:"reviewer_id"`
	Reviewer   string    `json:"reviewer_name"`
	RevieweeID string    `json:"reviewee_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

// mean averages ratings, returning 0 for an empty slice
func mean(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	var sum int
	for _, r := range ratings {
		sum += r
	}
	return float64(sum) / float64(len(ratings))
}

// recomputeRating refreshes users.rating from the surviving reviews inside
// the caller's transaction. A user with no reviews goes back to 0.
func recomputeRating(ctx context.Context, tx pgx.Tx, revieweeID string) error {
	rows, err := tx.Query(ctx, `SELECT rating FROM reviews WHERE reviewee_id = $1`, revieweeID)
	if err != nil {
		return err
	}
	var ratings []int
	for rows.Next() {
		var r int
		if err := rows.Scan(&r); err != nil {
			rows.Close()
			return err
		}
		ratings = append(ratings, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `UPDATE users SET rating = $2 WHERE id = $1`, revieweeID, mean(ratings))
	return err
}

// ListForUser returns all reviews about a user, newest first. Public.
func ListForUser(c echo.Context) error {
	userID := c.Param("id")

	rows, err := db.Conn.Query(context.Background(), `
		SELECT r.id, r.reviewer_id, u.name, r.reviewee_id, r.rating, r.comment, r.created_at
		FROM reviews r JOIN users u ON r.reviewer_id = u.id
		WHERE r.reviewee_id = $1
		ORDER BY r.created_at DESC
	`, userID)
	if err != nil {
		log.Printf("review list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	defer rows.Close()

	results := []Review{}
	for rows.Next() {
		var r Review
		if err := rows.Scan(&r.ID, &r.ReviewerID, &r.Reviewer, &r.RevieweeID,
			&r.Rating, &r.Comment, &r.CreatedAt); err != nil {
			log.Printf("review scan failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
		}
		results = append(results, r)
	}

	return c.JSON(http.StatusOK, results)
}

// Create records a review and refreshes the reviewee's aggregate rating
func Create(c echo.Context) error {
	ident, ok := appmw.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}

	var req struct {
		RevieweeID string `json:"reviewee_id"`
		Rating     int    `json:"rating"`
		Comment    string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil || req.RevieweeID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "reviewee_id is required"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Rating must be between 1 and 5"})
	}
	if req.RevieweeID == ident.ID {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "You cannot review yourself"})
	}

	ctx := context.Background()

	var exists bool
	if err := db.Conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`,
		req.RevieweeID).Scan(&exists); err != nil {
		log.Printf("review user check failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	if !exists {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
	}

	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		log.Printf("review tx begin failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	defer tx.Rollback(ctx)

	reviewID := uuid.New().String()
	_, err = tx.Exec(ctx, `
		INSERT INTO reviews (id, reviewer_id, reviewee_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
	`, reviewID, ident.ID, req.RevieweeID, req.Rating, req.Comment)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "You have already reviewed this user"})
		}
		log.Printf("review insert failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	if err := recomputeRating(ctx, tx, req.RevieweeID); err != nil {
		log.Printf("rating recompute failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	if err := tx.Commit(ctx); err != nil {
		log.Printf("review tx commit failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"id": reviewID, "message": "Review submitted"})
}

// Update lets the original reviewer revise rating or comment
func Update(c echo.Context) error {
	ident, ok := appmw.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}
	reviewID := c.Param("id")

	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Rating must be between 1 and 5"})
	}

	ctx := context.Background()

	var reviewerID, revieweeID string
	err := db.Conn.QueryRow(ctx, `SELECT reviewer_id, reviewee_id FROM reviews WHERE id = $1`,
		reviewID).Scan(&reviewerID, &revieweeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Review not found"})
		}
		log.Printf("review lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	if reviewerID != ident.ID {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Not authorized to edit this review"})
	}

	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		log.Printf("review tx begin failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		UPDATE reviews SET rating = $1, comment = $2 WHERE id = $3
	`, req.Rating, req.Comment, reviewID); err != nil {
		log.Printf("review update failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	if err := recomputeRating(ctx, tx, revieweeID); err != nil {
		log.Printf("rating recompute failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	if err := tx.Commit(ctx); err != nil {
		log.Printf("review tx commit failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Review updated"})
}

// Delete removes the caller's review and refreshes the reviewee's rating
func Delete(c echo.Context) error {
	ident, ok := appmw.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}
	reviewID := c.Param("id")

	ctx := context.Background()

	var reviewerID, revieweeID string
	err := db.Conn.QueryRow(ctx, `SELECT reviewer_id, reviewee_id FROM reviews WHERE id = $1`,
		reviewID).Scan(&reviewerID, &revieweeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Review not found"})
		}
		log.Printf("review lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	if reviewerID != ident.ID && ident.Role != "admin" {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Not authorized to delete this review"})
	}

	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		log.Printf("review tx begin failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, reviewID); err != nil {
		log.Printf("review delete failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	if err := recomputeRating(ctx, tx, revieweeID); err != nil {
		log.Printf("rating recompute failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	if err := tx.Commit(ctx); err != nil {
		log.Printf("review tx commit failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Review deleted"})
}
