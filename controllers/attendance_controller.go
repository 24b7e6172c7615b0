package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sammao/checkhub/attendance"
	"github.com/sammao/checkhub/config"
	"github.com/sammao/checkhub/utils"
)

const leaderboardCachePrefix = "leaderboard:"

// AttendanceController exposes the check-in engine over HTTP. It only
// translates requests; all invariants live in the attendance package.
type AttendanceController struct {
	svc *attendance.Service
}

// NewAttendanceController creates a new controller instance.
func NewAttendanceController(svc *attendance.Service) *AttendanceController {
	return &AttendanceController{svc: svc}
}

// CheckIn records attendance for today. When target_user_id is set, the
// check-in is performed on behalf of that user ("help someone else check in").
func (c *AttendanceController) CheckIn(ctx *gin.Context) {
	type request struct {
		UserID       string `json:"user_id" binding:"required"`
		TargetUserID string `json:"target_user_id"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	userID := req.UserID
	if req.TargetUserID != "" {
		userID = req.TargetUserID
	}

	now := time.Now()
	first, counts, err := c.svc.CheckIn(ctx.Request.Context(), userID, now)
	if err != nil {
		utils.Sugar.Errorf("check-in failed user=%s: %v", userID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to record check-in")
		return
	}

	utils.InvalidateByPrefix(leaderboardCachePrefix)

	utils.Success(ctx, gin.H{
		"user_id":          userID,
		"first_time_today": first,
		"year":             now.Year(),
		"month":            int(now.Month()),
		"day_counts":       counts,
	})
}

// Backfill records attendance for a missed day earlier in the current month.
// Backfilling today or a future day is rejected; backfilling an already
// attended day reports ok=false without touching it.
func (c *AttendanceController) Backfill(ctx *gin.Context) {
	type request struct {
		UserID string `json:"user_id" binding:"required"`
		Day    int    `json:"day" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid request payload")
		return
	}

	now := time.Now()
	if req.Day < 1 || req.Day >= now.Day() {
		utils.Error(ctx, http.StatusBadRequest, 40022, "day must be in the current month and before today")
		return
	}

	ok, counts, err := c.svc.Backfill(ctx.Request.Context(), req.UserID, now, req.Day)
	if err != nil {
		if errors.Is(err, attendance.ErrInvalidDay) {
			utils.Error(ctx, http.StatusBadRequest, 40022, "day must be in the current month and before today")
			return
		}
		utils.Sugar.Errorf("backfill failed user=%s day=%d: %v", req.UserID, req.Day, err)
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to record backfill")
		return
	}

	if ok {
		utils.InvalidateByPrefix(leaderboardCachePrefix)
	}

	utils.Success(ctx, gin.H{
		"user_id":    req.UserID,
		"ok":         ok,
		"year":       now.Year(),
		"month":      int(now.Month()),
		"day_counts": counts,
	})
}

// Calendar returns the current month's day→count mapping for one user.
func (c *AttendanceController) Calendar(ctx *gin.Context) {
	userID := ctx.Param("user_id")
	if userID == "" {
		utils.Error(ctx, http.StatusBadRequest, 40023, "user_id is required")
		return
	}

	now := time.Now()
	counts, err := c.svc.DayCounts(ctx.Request.Context(), userID, now)
	if err != nil {
		utils.Sugar.Errorf("calendar load failed user=%s: %v", userID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to load calendar")
		return
	}

	utils.Success(ctx, gin.H{
		"user_id":    userID,
		"year":       now.Year(),
		"month":      int(now.Month()),
		"day_counts": counts,
	})
}

// Leaderboard ranks users by accumulated check-in count, optionally limited
// to one month of the current year. Results are cached briefly in redis since
// group bots tend to request the board in bursts.
func (c *AttendanceController) Leaderboard(ctx *gin.Context) {
	var month *int
	cacheKey := leaderboardCachePrefix + "all"
	if raw := ctx.Query("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 || m > 12 {
			utils.Error(ctx, http.StatusBadRequest, 40024, "month must be an integer between 1 and 12")
			return
		}
		month = &m
		cacheKey = fmt.Sprintf("%s%d", leaderboardCachePrefix, m)
	}

	if cached, ok := utils.CacheGetBytes(cacheKey); ok {
		var entries []attendance.RankEntry
		if err := json.Unmarshal(cached, &entries); err == nil {
			utils.Success(ctx, gin.H{"entries": entries, "cached": true})
			return
		}
	}

	entries, err := c.svc.Rank(ctx.Request.Context(), month, time.Now())
	if err != nil {
		if errors.Is(err, attendance.ErrInvalidMonth) {
			utils.Error(ctx, http.StatusBadRequest, 40024, "month must be an integer between 1 and 12")
			return
		}
		utils.Sugar.Errorf("leaderboard failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to build leaderboard")
		return
	}

	ttl := time.Duration(config.Get().LeaderboardCacheSeconds) * time.Second
	utils.CacheSetJSON(cacheKey, entries, ttl)

	utils.Success(ctx, gin.H{"entries": entries})
}
