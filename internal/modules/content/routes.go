package content

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"eduportal/internal/domain"
)

// Module holds the marketing-site content endpoints. Paths, typos
// included, are the ones the public site and dashboard already call.
type Module struct {
	hero       *Resource[domain.HeroSection, *domain.HeroSection]
	stats      *Resource[domain.Stats, *domain.Stats]
	services   *Resource[domain.Service, *domain.Service]
	partners   *Resource[domain.Partner, *domain.Partner]
	faqs       *Resource[domain.FAQ, *domain.FAQ]
	contacts   *Resource[domain.Contact, *domain.Contact]
	admins     *Resource[domain.Admin, *domain.Admin]
	materials  *Resource[domain.Material, *domain.Material]
	categories *Resource[domain.Category, *domain.Category]
	blogs      *Resource[domain.Blog, *domain.Blog]
}

func NewModule(stores Stores, log *zap.Logger) *Module {
	m := &Module{
		hero:       newResource[domain.HeroSection]("Hero section", stores.Hero, log),
		stats:      newResource[domain.Stats]("Stats", stores.Stats, log),
		services:   newResource[domain.Service]("Service", stores.Services, log),
		partners:   newResource[domain.Partner]("University", stores.Partners, log),
		faqs:       newResource[domain.FAQ]("FAQ", stores.FAQs, log),
		contacts:   newResource[domain.Contact]("Contact information", stores.Contacts, log),
		admins:     newResource[domain.Admin]("Admin", stores.Admins, log),
		materials:  newResource[domain.Material]("Material", stores.Materials, log),
		categories: newResource[domain.Category]("Category", stores.Categories, log),
		blogs:      newResource[domain.Blog]("Blog", stores.Blogs, log),
	}

	m.materials.protect = func(mat *domain.Material) { mat.Downloads = 0 }
	m.blogs.protect = func(b *domain.Blog) {
		b.Views = 0
		b.PublishDate = ""
	}
	m.blogs.stamp = func(b *domain.Blog, now time.Time) {
		b.PublishDate = now.UTC().Format(domain.PublishDateLayout)
	}
	return m
}

func (m *Module) RegisterRoutes(r gin.IRoutes) {
	r.GET("/hero_section_data", m.hero.List)
	r.POST("/update_hero_section_data", m.hero.Create)

	r.GET("/stats_collection", m.stats.List)
	r.POST("/add_stats", m.stats.Create)

	r.GET("/our_services", m.services.List)
	r.POST("/post_new_service", m.services.Create)
	r.PATCH("/update_service_data/:id", m.services.Update)
	r.DELETE("/delete_service_data/:id", m.services.Delete)

	r.GET("/all_university_partners", m.partners.List)
	r.POST("/add_new_university", m.partners.Create)
	r.PATCH("/update_university/:id", m.partners.Update)
	r.DELETE("/delete_university_data/:id", m.partners.Delete)

	r.GET("/all_faqs", m.faqs.List)
	r.POST("/add_new_faq", m.faqs.Create)
	r.PATCH("/update_faq/:id", m.faqs.Update)
	r.DELETE("/delete_faq_data/:id", m.faqs.Delete)

	r.GET("/contact_informations", m.contacts.Latest)
	r.POST("/add_contact_informations", m.contacts.Create)

	r.GET("/admin_data", m.admins.List)
	r.POST("/admin_data", m.admins.Create)
	r.PATCH("/admin_data/:id", m.admins.Update)

	r.GET("/all_metarial_data", m.materials.List)
	r.POST("/post_a_new_metarila", m.materials.Create)
	r.PATCH("/update_metarila_data/:id", m.materials.Update)
	r.PATCH("/delete_metarila_data/:id", m.materials.Delete)
	r.PATCH("/increment_download/:id", m.materials.Increment("downloads", "Download count updated", "Failed to update download count"))

	r.GET("/all_category_data", m.categories.List)
	r.POST("/post_a_new_category", m.categories.Create)
	r.PATCH("/delete_category_data/:id", m.categories.Delete)

	r.GET("/all_blogs_data", m.blogs.List)
	r.GET("/blog/:id", m.blogs.Get)
	r.POST("/post_a_new_blog", m.blogs.Create)
	r.PATCH("/update_blog_data/:id", m.blogs.Update)
	r.PATCH("/delete_blog_data/:id", m.blogs.Delete)
	r.PATCH("/add_views/:id", m.blogs.Increment("views", "View count updated", "Failed to update views"))
}
