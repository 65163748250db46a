// Package i18n holds the translation catalogs and language helpers.
package i18n

import (
	"context"
	"strings"

	"golang.org/x/text/language"
)

// Default is the language used when nothing better matches.
const Default = "ar"

var supported = []language.Tag{language.Arabic, language.English}

var matcher = language.NewMatcher(supported)

type langKey struct{}

// WithLang returns a context carrying lang.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

// LangFromContext returns the language stored by WithLang, or Default.
func LangFromContext(ctx context.Context) string {
	if l, ok := ctx.Value(langKey{}).(string); ok && l != "" {
		return l
	}
	return Default
}

// Supported reports whether a catalog exists for lang.
func Supported(lang string) bool {
	_, ok := catalogs[strings.ToLower(lang)]
	return ok
}

// Dir returns the text direction for lang.
func Dir(lang string) string {
	if strings.ToLower(lang) == "en" {
		return "ltr"
	}
	return "rtl"
}

// DetectLanguage picks the best supported language from an Accept-Language
// header value.
func DetectLanguage(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	tag, _, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	base, _ := tag.Base()
	if !Supported(base.String()) {
		return Default
	}
	return base.String()
}

// T translates code into lang. Unknown languages fall back to Default and
// unknown codes are returned unchanged.
func T(lang, code string) string {
	if c, ok := catalogs[strings.ToLower(lang)]; ok {
		if s, ok := c[code]; ok {
			return s
		}
	}
	if s, ok := catalogs[Default][code]; ok {
		return s
	}
	return code
}

var catalogs = map[string]map[string]string{
	"ar": {
		"required":             "مطلوب",
		"must_be_positive":     "يجب أن تكون القيمة أكبر من صفر",
		"must_not_be_negative": "لا يمكن أن تكون القيمة سالبة",
		"products_required":    "الرجاء إضافة منتج واحد على الأقل",
		"fields_required":      "الرجاء ملء جميع الحقول المطلوبة",
		"invalid_products":     "الرجاء إدخال بيانات المنتجات بشكل صحيح",
		"order_not_found":      "لم يتم العثور على الأوردر المطلوب",
		"persistence_failed":   "تعذر حفظ البيانات",
		"invalid_json":         "بيانات غير صالحة",
		"invalid_id":           "رقم غير صالح",
		"render_failed":        "تعذر إنشاء الفاتورة",
		"print_job_expired":    "انتهت صلاحية صفحة الطباعة",
		"invalid_status":       "حالة غير صالحة",

		"order_saved":    "تم حفظ الأوردر بنجاح",
		"order_updated":  "تم تحديث الأوردر بنجاح",
		"order_deleted":  "تم حذف الأوردر بنجاح",
		"status_updated": "تم تحديث حالة الأوردر",
		"settings_saved": "تم حفظ الإعدادات بنجاح",

		"app_title":      "إدارة الأوردرات",
		"orders":         "الأوردرات",
		"new_order":      "أوردر جديد",
		"edit_order":     "تعديل الأوردر",
		"settings":       "الإعدادات",
		"no_orders":      "لا توجد أوردرات",
		"actions":        "إجراءات",
		"view":           "عرض",
		"edit":           "تعديل",
		"delete":         "حذف",
		"save":           "حفظ",
		"preview":        "معاينة",
		"print":          "طباعة",
		"print_all":      "طباعة الكل",
		"close":          "إغلاق",
		"export_pdf":     "تصدير PDF",
		"add_product":    "إضافة منتج",
		"remove":         "إزالة",
		"date":           "التاريخ",
		"status":         "الحالة",
		"amount":         "المبلغ",
		"items":          "المنتجات",
		"item_unit":      "منتج",
		"name":           "الاسم",
		"phone":          "الهاتف",
		"address":        "العنوان",
		"confirm_delete": "هل أنت متأكد من حذف هذا الأوردر؟",
		"mark_delivered": "تم التسليم",
		"mark_pending":   "قيد الانتظار",

		"preview_notes":      "هذه معاينة للفاتورة - لم يتم حفظها بعد",
		"no_orders_to_print": "لا توجد أوردرات للطباعة",
		"total_orders":       "إجمالي الأوردرات",
		"total_amount":       "إجمالي المبالغ",
		"remove_logo":        "إزالة الشعار",
		"invalid_logo":       "الشعار يجب أن يكون صورة",
		"sample_sender":      "مرسل تجريبي",
		"sample_receiver":    "مستلم تجريبي",
		"sample_product":     "منتج تجريبي",
		"sample_address":     "عنوان تجريبي",
		"sort_by":            "ترتيب حسب",
		"back":               "رجوع",

		"company_name":      "اسم الشركة",
		"company_logo":      "شعار الشركة",
		"company_contact":   "بيانات التواصل",
		"design":            "تصميم الفاتورة",
		"header_color":      "لون الرأس",
		"header_text_color": "لون نص الرأس",
		"font_size":         "حجم الخط",
		"font_family":       "نوع الخط",
		"footer_text":       "نص التذييل",
		"show_watermark":    "إظهار علامة مائية",

		"invoice_title":      "فاتورة مبيعات",
		"sender":             "المرسل",
		"receiver":           "المستلم",
		"invoice_date":       "تاريخ الفاتورة",
		"invoice_number":     "رقم الفاتورة",
		"order_status":       "حالة الطلب",
		"product":            "المنتج",
		"quantity":           "الكمية",
		"unit_price":         "سعر الوحدة",
		"line_total":         "الإجمالي",
		"subtotal":           "المجموع",
		"grand_total":        "الإجمالي النهائي",
		"notes":              "ملاحظات",
		"receiver_signature": "توقيع المستلم",
		"manager_signature":  "توقيع المسؤول",
		"thank_you":          "شكراً لتعاملكم مع",
		"inquiries":          "للاستفسار:",
		"currency":           "ج.م",
		"preview_banner":     "⚠️ هذه معاينة للفاتورة - لم يتم حفظها بعد",
		"orders_count":       "عدد الأوردرات:",
		"status_pending":     "قيد الانتظار",
		"status_delivered":   "تم التسليم",
		"status_preview":     "معاينة",
		"watermark":          "مسودة",
	},
	"en": {
		"required":             "Required",
		"must_be_positive":     "Must be greater than zero",
		"must_not_be_negative": "Must not be negative",
		"products_required":    "Please add at least one product",
		"fields_required":      "Please fill in all required fields",
		"invalid_products":     "Please enter valid product details",
		"order_not_found":      "The requested order was not found",
		"persistence_failed":   "Could not save data",
		"invalid_json":         "Invalid payload",
		"invalid_id":           "Invalid id",
		"render_failed":        "Could not render the invoice",
		"print_job_expired":    "This print page has expired",
		"invalid_status":       "Invalid status",

		"order_saved":    "Order saved",
		"order_updated":  "Order updated",
		"order_deleted":  "Order deleted",
		"status_updated": "Order status updated",
		"settings_saved": "Settings saved",

		"app_title":      "Order management",
		"orders":         "Orders",
		"new_order":      "New order",
		"edit_order":     "Edit order",
		"settings":       "Settings",
		"no_orders":      "No orders yet",
		"actions":        "Actions",
		"view":           "View",
		"edit":           "Edit",
		"delete":         "Delete",
		"save":           "Save",
		"preview":        "Preview",
		"print":          "Print",
		"print_all":      "Print all",
		"close":          "Close",
		"export_pdf":     "Export PDF",
		"add_product":    "Add product",
		"remove":         "Remove",
		"date":           "Date",
		"status":         "Status",
		"amount":         "Amount",
		"items":          "Items",
		"item_unit":      "items",
		"name":           "Name",
		"phone":          "Phone",
		"address":        "Address",
		"confirm_delete": "Delete this order?",
		"mark_delivered": "Mark delivered",
		"mark_pending":   "Mark pending",

		"preview_notes":      "This is an invoice preview - it has not been saved yet",
		"no_orders_to_print": "There are no orders to print",
		"total_orders":       "Total orders",
		"total_amount":       "Total amount",
		"remove_logo":        "Remove logo",
		"invalid_logo":       "The logo must be an image",
		"sample_sender":      "Sample sender",
		"sample_receiver":    "Sample receiver",
		"sample_product":     "Sample product",
		"sample_address":     "Sample address",
		"sort_by":            "Sort by",
		"back":               "Back",

		"company_name":      "Company name",
		"company_logo":      "Company logo",
		"company_contact":   "Contact details",
		"design":            "Invoice design",
		"header_color":      "Header color",
		"header_text_color": "Header text color",
		"font_size":         "Font size",
		"font_family":       "Font family",
		"footer_text":       "Footer text",
		"show_watermark":    "Show watermark",

		"invoice_title":      "Sales invoice",
		"sender":             "Sender",
		"receiver":           "Receiver",
		"invoice_date":       "Invoice date",
		"invoice_number":     "Invoice number",
		"order_status":       "Order status",
		"product":            "Product",
		"quantity":           "Quantity",
		"unit_price":         "Unit price",
		"line_total":         "Total",
		"subtotal":           "Subtotal",
		"grand_total":        "Grand total",
		"notes":              "Notes",
		"receiver_signature": "Receiver signature",
		"manager_signature":  "Manager signature",
		"thank_you":          "Thank you for doing business with",
		"inquiries":          "Inquiries:",
		"currency":           "EGP",
		"preview_banner":     "⚠️ This is an invoice preview - it has not been saved yet",
		"orders_count":       "Orders:",
		"status_pending":     "Pending",
		"status_delivered":   "Delivered",
		"status_preview":     "Preview",
		"watermark":          "DRAFT",
	},
}
