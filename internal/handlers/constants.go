package handlers

// User-facing messages
const (
	MsgInvalidCredentials = "Kullanıcı adı veya şifre hatalı."
	MsgLoginRequired      = "Lütfen giriş yapın."
	MsgForbidden          = "Bu sayfaya erişim yetkiniz yok."
	MsgInvalidCSRF        = "Geçersiz istek, lütfen sayfayı yenileyin."
	MsgTooManyRequests    = "Çok fazla deneme yaptınız, lütfen biraz bekleyin."
	MsgInvalidRequest     = "Geçersiz istek."
	MsgNotFound           = "Kayıt bulunamadı."
	MsgExternalService    = "Servise ulaşılamadı, lütfen tekrar deneyin."
	MsgInternalError      = "Beklenmeyen bir hata oluştu."

	MsgWordAddFailed    = "Kelime eklenirken hata oluştu."
	MsgWordDeleteFailed = "Silme işlemi başarısız oldu."
	MsgImportFailed     = "Dosya okunamadı."
	MsgImportFormat     = "Desteklenmeyen dosya türü. Lütfen .txt, .csv veya .xlsx yükleyin."
	MsgImportEmpty      = "Dosyada kelime bulunamadı."
	MsgImportAdded      = "%d kelime eklendi! (Demo limiti)"

	MsgProfileCreated  = "Kullanıcı başarıyla oluşturuldu!"
	MsgUsernameTaken   = "Bu kullanıcı adı zaten kullanılıyor."
	MsgAvatarUpdated   = "Avatar güncellendi."
	MsgDashboardFailed = "Veriler yüklenemedi."
	MsgStudyConflict   = "Çalışma durumu değişti, lütfen tekrar deneyin."
)

// Views a profile may open
const (
	ViewDashboard = "dashboard"
	ViewWords     = "words"
	ViewStudy     = "study"
	ViewAdmin     = "admin"
)
