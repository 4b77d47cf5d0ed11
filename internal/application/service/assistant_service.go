package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/smartbill/smartbill-api/internal/domain/repository"
	"github.com/smartbill/smartbill-api/pkg/apperror"
)

// AssistantService answers plain-language questions about the business by
// matching intents against the live sales aggregates
type AssistantService struct {
	analyticsRepo     repository.AnalyticsRepository
	productRepo       repository.ProductRepository
	lowStockThreshold int
}

// NewAssistantService creates a new assistant service
func NewAssistantService(analyticsRepo repository.AnalyticsRepository, productRepo repository.ProductRepository, lowStockThreshold int) *AssistantService {
	return &AssistantService{
		analyticsRepo:     analyticsRepo,
		productRepo:       productRepo,
		lowStockThreshold: lowStockThreshold,
	}
}

var businessTips = []string{
	"Restock your fast-moving products before the weekend rush.",
	"Offer a small discount to customers who have not bought in over a month.",
	"Bundle slow-moving items with your top sellers to clear shelf space.",
	"Review your low stock list every morning before opening.",
	"Repeat customers spend more. A loyalty card costs little and keeps them coming back.",
	"Track your daily sales trend. A falling week is easier to fix than a falling month.",
}

// GetTip returns a random business tip
func (s *AssistantService) GetTip() string {
	return businessTips[rand.Intn(len(businessTips))]
}

// Chat answers a question by matching it to a known intent. Unrecognized
// questions get a help message rather than an error.
func (s *AssistantService) Chat(ctx context.Context, message string) (string, error) {
	msg := strings.ToLower(strings.TrimSpace(message))

	switch {
	case strings.Contains(msg, "today"):
		return s.answerTodaySales(ctx)
	case strings.Contains(msg, "total sale") || strings.Contains(msg, "total revenue") || strings.Contains(msg, "all time"):
		return s.answerTotalSales(ctx)
	case strings.Contains(msg, "average") || strings.Contains(msg, "avg"):
		return s.answerAverageBill(ctx)
	case strings.Contains(msg, "top") || strings.Contains(msg, "best sell"):
		return s.answerTopProducts(ctx)
	case strings.Contains(msg, "low stock") || strings.Contains(msg, "restock") || strings.Contains(msg, "out of stock"):
		return s.answerLowStock(ctx)
	case strings.Contains(msg, "predict") || strings.Contains(msg, "forecast") || strings.Contains(msg, "next month"):
		return s.answerPrediction(ctx)
	case strings.Contains(msg, "tip") || strings.Contains(msg, "advice"):
		return s.GetTip(), nil
	case strings.Contains(msg, "help"):
		return s.helpText(), nil
	default:
		return "I didn't catch that. " + s.helpText(), nil
	}
}

func (s *AssistantService) helpText() string {
	return "You can ask me about today's sales, total sales, average bill, top products, low stock, or a sales forecast."
}

func (s *AssistantService) answerTodaySales(ctx context.Context) (string, error) {
	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	revenue, bills, err := s.analyticsRepo.GetRevenueBetween(ctx, todayStart, todayStart.AddDate(0, 0, 1))
	if err != nil {
		return "", err
	}
	if bills == 0 {
		return "No sales recorded today yet.", nil
	}
	return fmt.Sprintf("Today you have %d bills totalling %.2f.", bills, revenue), nil
}

func (s *AssistantService) answerTotalSales(ctx context.Context) (string, error) {
	revenue, err := s.analyticsRepo.GetTotalRevenue(ctx)
	if err != nil {
		return "", err
	}
	bills, err := s.analyticsRepo.GetTotalBills(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("All time you have %d bills totalling %.2f.", bills, revenue), nil
}

func (s *AssistantService) answerAverageBill(ctx context.Context) (string, error) {
	revenue, err := s.analyticsRepo.GetTotalRevenue(ctx)
	if err != nil {
		return "", err
	}
	bills, err := s.analyticsRepo.GetTotalBills(ctx)
	if err != nil {
		return "", err
	}
	if bills == 0 {
		return "No bills yet, so there is no average to report.", nil
	}
	return fmt.Sprintf("Your average bill is %.2f across %d bills.", revenue/float64(bills), bills), nil
}

func (s *AssistantService) answerTopProducts(ctx context.Context) (string, error) {
	top, err := s.analyticsRepo.GetTopProducts(ctx, 3)
	if err != nil {
		return "", err
	}
	if len(top) == 0 {
		return "No products have sold yet.", nil
	}
	parts := make([]string, len(top))
	for i, p := range top {
		parts[i] = fmt.Sprintf("%s (%d sold)", p.ProductName, p.QuantitySold)
	}
	return "Your best sellers are: " + strings.Join(parts, ", ") + ".", nil
}

func (s *AssistantService) answerLowStock(ctx context.Context) (string, error) {
	products, err := s.productRepo.GetLowStock(ctx, s.lowStockThreshold)
	if err != nil {
		return "", err
	}
	if len(products) == 0 {
		return "All products are comfortably stocked.", nil
	}
	parts := make([]string, len(products))
	for i, p := range products {
		parts[i] = fmt.Sprintf("%s (%d left)", p.Name, p.Stock)
	}
	return "Running low: " + strings.Join(parts, ", ") + ".", nil
}

// answerPrediction fits a least-squares trend line over the last month of
// daily revenue and extends it 30 days out
func (s *AssistantService) answerPrediction(ctx context.Context) (string, error) {
	daily, err := s.analyticsRepo.GetDailySales(ctx, 30)
	if err != nil {
		return "", err
	}
	if len(daily) < 2 {
		return "I need at least a couple of days of sales before I can forecast.", nil
	}

	predicted := predictMonthlyRevenue(daily)
	if predicted < 0 {
		predicted = 0
	}
	return fmt.Sprintf("Based on the last %d days, next month's revenue projects to about %.2f.", len(daily), predicted), nil
}

// Prediction is the assistant's revenue forecast
type Prediction struct {
	PredictedRevenue float64 `json:"predicted_revenue"`
	DaysOfHistory    int     `json:"days_of_history"`
}

// Predict forecasts next month's revenue from the recent daily history.
// With fewer than two days of sales there is no trend to fit.
func (s *AssistantService) Predict(ctx context.Context) (*Prediction, error) {
	daily, err := s.analyticsRepo.GetDailySales(ctx, 30)
	if err != nil {
		return nil, err
	}
	if len(daily) < 2 {
		return nil, apperror.NewBadRequestError("Not enough sales history to forecast yet")
	}

	predicted := predictMonthlyRevenue(daily)
	if predicted < 0 {
		predicted = 0
	}
	return &Prediction{PredictedRevenue: predicted, DaysOfHistory: len(daily)}, nil
}

// predictMonthlyRevenue fits revenue = a + b*day by least squares over the
// observed days and sums the fitted line over the next 30 days
func predictMonthlyRevenue(daily []repository.DailySalesResult) float64 {
	n := float64(len(daily))
	var sumX, sumY, sumXY, sumXX float64
	for i, d := range daily {
		x := float64(i)
		sumX += x
		sumY += d.Revenue
		sumXY += x * d.Revenue
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return sumY / n * 30
	}

	b := (n*sumXY - sumX*sumY) / denom
	a := (sumY - b*sumX) / n

	var total float64
	for day := len(daily); day < len(daily)+30; day++ {
		v := a + b*float64(day)
		if v > 0 {
			total += v
		}
	}
	return total
}
