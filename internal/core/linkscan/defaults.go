package linkscan

import "adwarden/internal/platform/config"

// DefaultWhitelist is the editable whitelist shipped with the service
var DefaultWhitelist = []string{
	"qq.com", "qzone.qq.com", "weixin.qq.com", "tencent.com",
	"baidu.com", "taobao.com", "tmall.com", "jd.com", "alibaba.com",
	"github.com", "gitee.com", "bilibili.com", "b23.tv", "zhihu.com",
	"weibo.com", "gitlab.com", "microsoft.com",
	"yuanshen.com", "volcengine.com", "douyin.com", "xiaohongshu.com", "kuaishou.com",
	"bing.com", "google.com", "npmjs.com", "js.org", "ts.isc.org.cn",
	"gov.cn", "163.com", "rainyun.com", "aliyun.com", "mi.com",
	"mi.cn", "xiaomi.cn", "xiaomi.com", "huawei.com", "huaweicloud.com",
	"oppo.com", "iqoo.com", "vivo.com.cn", "vivo.com", "meizu.com",
	"meituan.com", "52pojie.cn", "fit2cloud.com", "huorong.cn", "360.cn",
	"360.com", "so.com", "deepseek.com", "csdn.com", "csdn.net",
	"cnblogs.com", "ele.me", "sina.com.cn", "thepaper.cn", "smzdm.com",
	"sohu.com", "cctv.com", "cctv.cn", "msn.cn", "12315.cn",
	"12306.cn", "coolapk.com", "xiaoheihe.cn", "sogou.com", "live.com",
	"steampowered.com", "s.team", "wegame.com.cn", "epicgames.com",
	"1panel.cn", "bt.cn",
}

// DefaultSuspiciousKeywords are host/path fragments typical of file drops
var DefaultSuspiciousKeywords = []string{
	"oss", "cos", "qiniu", "upyun", "ucloud", "baidubce",
	"download", "file", "cdn", "static", "assets",
}

// DefaultOptions enables every rule with the shipped lists
func DefaultOptions() Options {
	return Options{
		DetectObjectStorage: true,
		DetectUnknown:       true,
		Whitelist:           DefaultWhitelist,
		SuspiciousKeywords:  DefaultSuspiciousKeywords,
	}
}

// FromConfig reads ADWARDEN_LINKS_* style keys from cfg
func FromConfig(cfg config.Conf) Options {
	return Options{
		DetectObjectStorage: cfg.MayBool("DETECT_OSS", true),
		DetectUnknown:       cfg.MayBool("DETECT_UNKNOWN", true),
		Whitelist:           cfg.MayCSV("WHITELIST", DefaultWhitelist),
		SuspiciousKeywords:  cfg.MayCSV("SUSPICIOUS_KEYWORDS", DefaultSuspiciousKeywords),
	}
}
