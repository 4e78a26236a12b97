// Package mail собирает письма портала: темы, текстовые тела и HTML-версии,
// отрендеренные из встроенных шаблонов. Пакет не занимается доставкой —
// готовые models.EmailMessage публикуются в очередь и отправляются сервисом
// отправки.
package mail

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/magabrotheeeer/news-portal/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

func render(name string, data any) (string, error) {
	var sb strings.Builder
	if err := templates.ExecuteTemplate(&sb, name, data); err != nil {
		return "", fmt.Errorf("mail.render %s: %w", name, err)
	}
	return sb.String(), nil
}

// PostURL возвращает адрес страницы публикации на сайте.
func PostURL(siteURL string, postID int64) string {
	return fmt.Sprintf("%s/news/%d/", siteURL, postID)
}

// UnsubscribeURL возвращает адрес отписки от категории.
func UnsubscribeURL(siteURL string, categoryID int64) string {
	return fmt.Sprintf("%s/news/unsubscribe/%d/", siteURL, categoryID)
}

// NewPostMessage собирает уведомление подписчику о новой публикации в категории.
func NewPostMessage(subscriber *models.Subscriber, post *models.Post, category models.Category, siteURL string) (models.EmailMessage, error) {
	postURL := PostURL(siteURL, post.ID)

	htmlBody, err := render("new_post_notification.html", map[string]any{
		"Username":     subscriber.Username,
		"CategoryName": category.Name,
		"Title":        post.Title,
		"Preview":      post.Preview(),
		"PostURL":      postURL,
		"SiteURL":      siteURL,
	})
	if err != nil {
		return models.EmailMessage{}, err
	}

	textBody := fmt.Sprintf(`Новая статья: %s
Категория: %s

%s

Читать полную статью: %s
`, post.Title, category.Name, post.Preview(), postURL)

	return models.EmailMessage{
		To:       subscriber.Email,
		Subject:  fmt.Sprintf("Новая статья в категории %s", category.Name),
		TextBody: textBody,
		HTMLBody: htmlBody,
	}, nil
}

type digestPost struct {
	Title string
	URL   string
	Date  string
}

// WeeklyDigestMessage собирает письмо еженедельной рассылки по одной подписке:
// все новые публикации категории за неделю в одном письме.
func WeeklyDigestMessage(target *models.DigestTarget, posts []*models.Post, siteURL string) (models.EmailMessage, error) {
	items := make([]digestPost, 0, len(posts))
	for _, post := range posts {
		items = append(items, digestPost{
			Title: post.Title,
			URL:   PostURL(siteURL, post.ID),
			Date:  post.DateCreation.Format("02.01.2006"),
		})
	}

	unsubscribeURL := UnsubscribeURL(siteURL, target.CategoryID)
	htmlBody, err := render("weekly_digest.html", map[string]any{
		"Username":       target.Username,
		"CategoryName":   target.CategoryName,
		"Posts":          items,
		"UnsubscribeURL": unsubscribeURL,
	})
	if err != nil {
		return models.EmailMessage{}, err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Еженедельная рассылка новых статей в категории \"%s\"\n\n", target.CategoryName)
	fmt.Fprintf(&sb, "За последнюю неделю опубликовано %d новых статей:\n\n", len(posts))
	for _, item := range items {
		fmt.Fprintf(&sb, "• %s (%s)\n  %s\n\n", item.Title, item.Date, item.URL)
	}
	fmt.Fprintf(&sb, "---\nЧтобы отписаться от рассылки, перейдите по ссылке:\n%s\n", unsubscribeURL)

	return models.EmailMessage{
		To:       target.Email,
		Subject:  fmt.Sprintf("Еженедельная рассылка: новые статьи в категории \"%s\"", target.CategoryName),
		TextBody: sb.String(),
		HTMLBody: htmlBody,
	}, nil
}

// WelcomeConfirmationMessage собирает письмо с подтверждением регистрации.
func WelcomeConfirmationMessage(user *models.User, confirmationLink string) (models.EmailMessage, error) {
	htmlBody, err := render("welcome_confirmation.html", map[string]any{
		"Username":         user.Username,
		"ConfirmationLink": confirmationLink,
	})
	if err != nil {
		return models.EmailMessage{}, err
	}

	return models.EmailMessage{
		To:       user.Email,
		Subject:  "Добро пожаловать! Подтвердите ваш email",
		TextBody: fmt.Sprintf("Добро пожаловать, %s! Подтвердите ваш email: %s\n", user.Username, confirmationLink),
		HTMLBody: htmlBody,
	}, nil
}

// WelcomeCompleteMessage собирает приветственное письмо после подтверждения почты.
func WelcomeCompleteMessage(user *models.User, siteURL string) (models.EmailMessage, error) {
	htmlBody, err := render("welcome_complete.html", map[string]any{
		"Username": user.Username,
		"LoginURL": siteURL + "/accounts/login/",
	})
	if err != nil {
		return models.EmailMessage{}, err
	}

	return models.EmailMessage{
		To:       user.Email,
		Subject:  "Добро пожаловать на наш сайт!",
		TextBody: fmt.Sprintf("Приветствуем, %s! Ваш аккаунт активирован.\n", user.Username),
		HTMLBody: htmlBody,
	}, nil
}

// AuthorCongratulationMessage собирает письмо о получении статуса автора.
func AuthorCongratulationMessage(user *models.User, siteURL string) (models.EmailMessage, error) {
	htmlBody, err := render("author_congratulation.html", map[string]any{
		"Username": user.Username,
		"SiteURL":  siteURL,
	})
	if err != nil {
		return models.EmailMessage{}, err
	}

	return models.EmailMessage{
		To:       user.Email,
		Subject:  "Поздравляем! Вы стали автором",
		TextBody: fmt.Sprintf("Здравствуйте, %s! Теперь вы можете публиковать материалы на портале.\n", user.Username),
		HTMLBody: htmlBody,
	}, nil
}
