package i18n

var arabic = map[string]string{
	// layout
	"Supplier Directory":       "دليل الموردين",
	"Mawrid":                   "مورد",
	"Staff login":              "دخول الموظفين",
	"Dashboard":                "لوحة التحكم",
	"Sign out":                 "تسجيل الخروج",
	"Signed in as %s":          "مسجل الدخول باسم %s",
	"Back to directory":        "العودة إلى الدليل",
	"Loading...":               "جاري التحميل...",
	"Unexpected error":         "حدث خطأ غير متوقع",
	"Error: %s":                "خطأ: %s",
	"Page not found":           "الصفحة غير موجودة",
	"Something went wrong":     "حدث خطأ ما",
	"Previous":                 "السابق",
	"Next":                     "التالي",
	"Page %d of %d":            "الصفحة %d من %d",
	"Search":                   "بحث",
	"Reset":                    "إعادة تعيين",
	"Search suppliers...":      "ابحث باسم الشركة أو المسؤول أو الهاتف...",
	"All cities":               "جميع المدن",
	"All addresses":            "جميع العناوين",
	"All categories":           "جميع التصنيفات",
	"No suppliers found":       "لا يوجد موردون",
	"Failed to load data":      "خطأ في تحميل البيانات",
	"Failed to load data: %s":  "خطأ في تحميل البيانات: %s",
	"Reload":                   "إعادة التحميل",
	"Not specified":            "غير محدد",
	"Call":                     "اتصال",
	"Send email":               "إرسال بريد",
	"Showing %d of %d suppliers": "عرض %d من أصل %d مورد",

	// supplier fields
	"Company name":       "اسم الشركة",
	"Responsible person": "الشخص المسؤول",
	"Address":            "العنوان",
	"Primary mobile":     "الهاتف الأساسي",
	"Secondary mobile":   "الهاتف الثانوي",
	"Email":              "البريد الإلكتروني",
	"Category":           "التصنيف",
	"City":               "المدينة",
	"Created":            "تاريخ الإضافة",
	"Actions":            "إجراءات",
	"Optional":           "اختياري",
	"Select category":    "اختر التصنيف",

	// dashboard
	"Total suppliers":        "إجمالي الموردين",
	"With phone":             "لديهم هاتف",
	"With email":             "لديهم بريد إلكتروني",
	"Completion rate":        "نسبة الاكتمال",
	"Add supplier":           "إضافة مورد",
	"Edit supplier":          "تعديل مورد",
	"Edit supplier: %s":      "تعديل مورد: %s",
	"Update supplier":        "تحديث معلومات المورد",
	"Edit":                   "تعديل",
	"Delete":                 "حذف",
	"Save":                   "حفظ",
	"Cancel":                 "إلغاء",
	"Confirm deletion":       "تأكيد الحذف",
	"Are you sure you want to delete %s?": "هل أنت متأكد من رغبتك في حذف %s؟",
	"Supplier added successfully":         "تم إضافة المورد بنجاح ✓",
	"Supplier updated successfully":       "تم تحديث المورد بنجاح ✓",
	"Supplier deleted successfully":       "تم حذف المورد بنجاح ✓",
	"Supplier not found":                  "المورد غير موجود",
	"Delete failed: %s":                   "خطأ في الحذف: %s",
	"Please correct the errors in the form": "يرجى تصحيح الأخطاء في النموذج",
	"All required fields must be filled":    "جميع الحقول المطلوبة يجب أن تملأ",
	"This form was already submitted":       "تم إرسال هذا النموذج مسبقاً",
	"Export Excel":                          "تصدير Excel",
	"Export PDF":                            "تصدير PDF",
	"PDF export is not configured":          "تصدير PDF غير مهيأ",
	"Export failed":                         "فشل التصدير",
	"Last updated %s":                       "آخر تحديث %s",
	"Refresh":                               "تحديث",
	"Generated on %s":                       "تاريخ الإنشاء %s",
	"Search: %s":                            "بحث: %s",
	"Address: %s":                           "العنوان: %s",
	"Your session has expired. Please sign in again.": "انتهت جلستك. يرجى تسجيل الدخول مرة أخرى",

	// validation
	"Company name is required":                         "اسم الشركة مطلوب",
	"Responsible person name is required":              "اسم الشخص المسؤول مطلوب",
	"Address is required":                              "العنوان مطلوب",
	"Primary mobile number is required":                "رقم الهاتف الأساسي مطلوب",
	"Invalid mobile number format (use 01x-xxxx-xxxx)": "صيغة غير صحيحة (استخدم 01x-xxxx-xxxx)",
	"Invalid secondary mobile number format":           "رقم هاتف غير صالح",
	"Invalid email address":                            "بريد إلكتروني غير صالح",

	// auth
	"Sign in":                                  "تسجيل الدخول",
	"Password":                                 "كلمة المرور",
	"Remember me":                              "تذكرني",
	"Forgot password?":                         "نسيت كلمة المرور؟",
	"Create account":                           "إنشاء حساب",
	"Already have an account?":                 "لديك حساب بالفعل؟",
	"Confirm password":                         "تأكيد كلمة المرور",
	"Please fill in all required fields":       "يرجى ملء جميع الحقول المطلوبة",
	"Invalid email or password":                "البريد الإلكتروني أو كلمة المرور غير صحيحة",
	"Email not confirmed yet":                  "لم يتم تأكيد بريدك الإلكتروني بعد",
	"Too many attempts. Try again later":       "عدد محاولات كثير جداً. حاول لاحقاً",
	"Sign-in error: %s":                        "حدث خطأ في تسجيل الدخول: %s",
	"Signed in successfully":                   "تم تسجيل الدخول بنجاح ✓",
	"Signed out":                               "تم تسجيل الخروج",
	"Sign out failed":                          "خطأ في تسجيل الخروج",
	"Passwords do not match":                   "كلمتا المرور غير متطابقتين",
	"Password must be at least 6 characters":   "يجب ألا تقل كلمة المرور عن 6 أحرف",
	"Account created. Check your email to confirm it.": "تم إنشاء الحساب. تحقق من بريدك الإلكتروني لتأكيده",
	"Reset password":                           "استعادة كلمة المرور",
	"Send reset link":                          "إرسال رابط الاستعادة",
	"If the email is registered, a reset link has been sent.": "إذا كان البريد مسجلاً فقد تم إرسال رابط الاستعادة",
	"Back to sign in":                          "العودة لتسجيل الدخول",
	"Verifying recovery link...":               "جاري التحقق من رابط الاستعادة...",
	"The recovery link is invalid or has expired": "رابط الاستعادة غير صالح أو منتهي الصلاحية",
	"Set a new password":                       "تعيين كلمة مرور جديدة",
	"New password":                             "كلمة المرور الجديدة",
	"Password updated":                         "تم تحديث كلمة المرور ✓",
}
